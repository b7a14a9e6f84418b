package models

import (
	"gorm.io/gorm"
)

type Payment struct {
	gorm.Model
	BookingID       uint    `json:"bookingID" gorm:"not null;index"`
	StudentID       uint    `json:"studentID" gorm:"not null;index"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency" gorm:"size:8"`
	PaymentMethod   string  `json:"paymentMethod" gorm:"size:32"`
	TransactionType string  `json:"transactionType" gorm:"size:16"` // payment, payout
	TransactionID   string  `json:"transactionID" gorm:"uniqueIndex;size:64"`
	Status          string  `json:"status" gorm:"size:16;index"` // pending, completed

	// Relationships
	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Student *User    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}
