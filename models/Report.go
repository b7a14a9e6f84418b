package models

import "gorm.io/gorm"

// Report flags a user or a property for review by an admin.
// At least one of ReportedUserID/ReportedPropertyID must be set,
// checked in the handler.
type Report struct {
	gorm.Model
	ReporterID         uint  `json:"reporterID" gorm:"not null;index"`
	ReportedUserID     *uint `json:"reportedUserID" gorm:"index"`
	ReportedPropertyID *uint `json:"reportedPropertyID" gorm:"index"`

	Reason  string `json:"reason" gorm:"size:256"`
	Message string `json:"message" gorm:"size:1000"`

	// Relationships
	Reporter         *User     `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	ReportedUser     *User     `json:"reportedUser,omitempty" gorm:"foreignKey:ReportedUserID"`
	ReportedProperty *Property `json:"reportedProperty,omitempty" gorm:"foreignKey:ReportedPropertyID"`
}
