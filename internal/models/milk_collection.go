package models

import "time"

// MilkCollection: Üreticiden alınan süt kaydı
type MilkCollection struct {
	ID       uint `gorm:"primaryKey"`
	BranchID uint `gorm:"index;not null"`
	Branch   Branch
	FarmerID uint `gorm:"index;not null"`
	Farmer   Farmer
	ShiftID  uint `gorm:"not null"`
	Shift    Shift
	// Kaydı giren personel (opsiyonel, eski kayıtlarda boş olabilir)
	EmployeeID *uint
	Employee   *Employee

	Date       time.Time `gorm:"index;not null"`
	QuantityLt float64   `gorm:"not null"` // litre
	FatRate    float64   // yağ oranı (%)
	UnitPrice  float64   `gorm:"not null"` // TL/litre
	TotalPrice float64   `gorm:"not null"`
	Note       string    `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
