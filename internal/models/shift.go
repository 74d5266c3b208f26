package models

import "time"

// Shift: Toplama/satış vardiyası (sabah/akşam)
type Shift struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null;unique"`
	StartTime string `gorm:"size:5"` // "05:00" formatında
	EndTime   string `gorm:"size:5"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
