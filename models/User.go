package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string     `json:"email" gorm:"uniqueIndex;size:256"`
	Username    string     `json:"username" gorm:"size:256"`
	PhoneNumber string     `json:"phoneNumber" gorm:"size:32"`
	Password    string     `json:"-"`
	Role        string     `json:"role" gorm:"type:varchar(20);default:student;index"` // student, owner, admin
	Properties  []Property `json:"properties,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}
