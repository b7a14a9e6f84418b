package models

import (
	"gorm.io/gorm"
)

type Message struct {
	gorm.Model
	ChatID     uint   `json:"chatID" gorm:"not null;index"`
	SenderID   uint   `json:"senderID" gorm:"not null;index"`
	ReceiverID uint   `json:"receiverID" gorm:"not null;index"`
	Text       string `json:"text" gorm:"type:text"`
}
