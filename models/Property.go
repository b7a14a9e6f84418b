package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	OwnerID      uint           `json:"ownerID" gorm:"not null;index"`
	Owner        *User          `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Title        string         `json:"title" gorm:"size:256"`
	Description  string         `json:"description" gorm:"type:text"`
	Type         string         `json:"type" gorm:"size:16"` // room, apartment
	Price        float64        `json:"price"`
	Address      string         `json:"address" gorm:"size:512"`
	City         string         `json:"city" gorm:"size:128"`
	Country      string         `json:"country" gorm:"size:128"`
	Image        string         `json:"image" gorm:"size:512"`
	Amenities    datatypes.JSON `json:"amenities"`
	BlockedDates datatypes.JSON `json:"blockedDates"`
}

// Custom JSON marshaling so JSON columns render as arrays, never null
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Amenities    []string `json:"amenities"`
		BlockedDates []string `json:"blockedDates"`
		*Alias
	}{
		Amenities:    []string{},
		BlockedDates: []string{},
		Alias:        (*Alias)(p),
	}

	if p.Amenities != nil {
		var amenities []string
		if err := json.Unmarshal(p.Amenities, &amenities); err == nil {
			aux.Amenities = amenities
		}
	}

	if p.BlockedDates != nil {
		var blockedDates []string
		if err := json.Unmarshal(p.BlockedDates, &blockedDates); err == nil {
			aux.BlockedDates = blockedDates
		}
	}

	return json.Marshal(aux)
}
