package models

import "gorm.io/gorm"

type HealthCategory string

const (
	HealthVaccination        HealthCategory = "vaccination"
	HealthParasitePrevention HealthCategory = "parasite_prevention"
	HealthMedication         HealthCategory = "medication"
	HealthGeneral            HealthCategory = "general"
)

func (c HealthCategory) Valid() bool {
	switch c {
	case HealthVaccination, HealthParasitePrevention, HealthMedication, HealthGeneral:
		return true
	}
	return false
}

type HealthRecord struct {
	gorm.Model
	PuppyID     uint           `gorm:"index;not null" json:"puppy_id"`
	Category    HealthCategory `gorm:"size:32;not null" json:"category"`
	Date        string         `gorm:"size:10;index;not null" json:"date"` // YYYY-MM-DD
	Title       string         `gorm:"not null" json:"title"`
	Clinic      string         `json:"clinic"`
	Description string         `gorm:"type:text" json:"description"`
	Notes       string         `gorm:"type:text" json:"notes"`
}
