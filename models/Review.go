package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	PropertyID uint     `json:"propertyID" gorm:"not null;index"`
	StudentID  uint     `json:"studentID" gorm:"not null;index"`
	Property   Property `json:"property" gorm:"foreignKey:PropertyID"`
	Student    User     `json:"student" gorm:"foreignKey:StudentID"`
	Rating     int      `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string   `json:"comment" gorm:"type:text"`
}
