package models

import (
	"time"

	"gorm.io/gorm"
)

type Puppy struct {
	gorm.Model
	Name         string     `gorm:"not null" json:"name"`
	Breed        string     `json:"breed"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	MicrochipID  string     `json:"microchip_id"`
	VetName      string     `json:"vet_name"`
	VetPhone     string     `json:"vet_phone"`
	OwnerContact string     `json:"owner_contact"`
	PhotoURL     string     `json:"photo_url"`
}

// WeightEntry is one point of the puppy's weight log. Weight is in pounds.
type WeightEntry struct {
	gorm.Model
	PuppyID uint    `gorm:"index;not null" json:"puppy_id"`
	Date    string  `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	Weight  float64 `json:"weight"`
}
