package models

import "time"

type UserRole string

const (
	RoleSuperAdmin  UserRole = "super_admin"
	RoleBranchAdmin UserRole = "branch_admin"
)

// User: Panele giriş yapan hesap. branch_admin bir şubeye bağlıdır,
// super_admin için BranchID boş kalır.
type User struct {
	ID           uint `gorm:"primaryKey"`
	BranchID     *uint
	Branch       *Branch
	Name         string   `gorm:"size:80;not null"`
	Email        string   `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:100;not null"` // bcrypt çıktısı 60 karakter
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
