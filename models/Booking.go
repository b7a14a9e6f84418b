package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking is a student's request to rent a property for an inclusive
// date range. Overlap and status transitions are handled by
// services.BookingService.
type Booking struct {
	gorm.Model
	StudentID   uint      `json:"studentID" gorm:"not null;index"`
	PropertyID  uint      `json:"propertyID" gorm:"not null;index"`
	DateFrom    time.Time `json:"dateFrom"`
	DateTo      time.Time `json:"dateTo"`
	TotalAmount float64   `json:"totalAmount"`
	Status      string    `json:"status" gorm:"size:16;index"` // pending, confirmed, cancelled, already_booked

	// Relationships
	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Student  *User     `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}
