package models

import "time"

// Farmer: Kooperatife süt veren üretici
type Farmer struct {
	ID       uint `gorm:"primaryKey"`
	BranchID uint `gorm:"index;not null"`
	Branch   Branch
	Code     string `gorm:"size:20;uniqueIndex;not null"` // Üretici kodu (makbuzlarda kullanılır)
	Name     string `gorm:"size:100;not null"`
	Phone    string `gorm:"size:50"`
	Address  string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
