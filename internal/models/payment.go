package models

import "time"

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodBank PaymentMethod = "bank"
)

// FarmerPayment: Kooperatifin üreticiye yaptığı süt ödemesi
type FarmerPayment struct {
	ID       uint `gorm:"primaryKey"`
	BranchID uint `gorm:"index;not null"`
	Branch   Branch
	FarmerID uint `gorm:"index;not null"`
	Farmer   Farmer

	Date      time.Time     `gorm:"index;not null"`
	Amount    float64       `gorm:"not null"`
	Method    PaymentMethod `gorm:"size:20;not null;default:'cash'"`
	ReceiptNo string        `gorm:"size:36;uniqueIndex;not null"` // UUID makbuz numarası
	Note      string        `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerPayment: Müşteriden alınan satış tahsilatı
type CustomerPayment struct {
	ID         uint `gorm:"primaryKey"`
	BranchID   uint `gorm:"index;not null"`
	Branch     Branch
	CustomerID uint `gorm:"index;not null"`
	Customer   Customer

	Date      time.Time     `gorm:"index;not null"`
	Amount    float64       `gorm:"not null"`
	Method    PaymentMethod `gorm:"size:20;not null;default:'cash'"`
	ReceiptNo string        `gorm:"size:36;uniqueIndex;not null"`
	Note      string        `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
