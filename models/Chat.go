package models

import (
	"gorm.io/gorm"
)

// Chat groups messages between two users, optionally about a property.
type Chat struct {
	gorm.Model
	ParticipantOneID uint  `json:"participantOneID" gorm:"not null;index"`
	ParticipantTwoID uint  `json:"participantTwoID" gorm:"not null;index"`
	PropertyID       *uint `json:"propertyID" gorm:"index"`

	// Relationships
	ParticipantOne *User     `json:"participantOne,omitempty" gorm:"foreignKey:ParticipantOneID"`
	ParticipantTwo *User     `json:"participantTwo,omitempty" gorm:"foreignKey:ParticipantTwoID"`
	Property       *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Messages       []Message `json:"messages,omitempty" gorm:"foreignKey:ChatID"`
}
