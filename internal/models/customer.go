package models

import "time"

type Customer struct {
	ID       uint `gorm:"primaryKey"`
	BranchID uint `gorm:"index;not null"`
	Branch   Branch
	Name     string `gorm:"size:100;not null"`
	Phone    string `gorm:"size:50"`
	Address  string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
