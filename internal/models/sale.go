package models

import "time"

// Sale: Müşteriye yapılan süt satışı
type Sale struct {
	ID         uint `gorm:"primaryKey"`
	BranchID   uint `gorm:"index;not null"`
	Branch     Branch
	CustomerID uint `gorm:"index;not null"`
	Customer   Customer
	ShiftID    uint `gorm:"not null"`
	Shift      Shift
	EmployeeID *uint
	Employee   *Employee

	Date       time.Time `gorm:"index;not null"`
	Product    string    `gorm:"size:100;not null;default:'çiğ süt'"`
	QuantityLt float64   `gorm:"not null"`
	UnitPrice  float64   `gorm:"not null"`
	TotalPrice float64   `gorm:"not null"`
	Note       string    `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
