package models

import "time"

type Employee struct {
	ID       uint `gorm:"primaryKey"`
	BranchID uint `gorm:"index;not null"`
	Branch   Branch
	Name     string `gorm:"size:100;not null"`
	Phone    string `gorm:"size:50"`
	Title    string `gorm:"size:100"` // Görev (toplayıcı, veznedar vb.)
	CreatedAt time.Time
	UpdatedAt time.Time
}
