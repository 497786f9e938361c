package models

import (
	"time"

	"gorm.io/gorm"
)

// DayLog holds every care record for one puppy on one calendar date.
type DayLog struct {
	gorm.Model
	PuppyID uint    `gorm:"uniqueIndex:idx_puppy_date;not null" json:"puppy_id"`
	Date    string  `gorm:"uniqueIndex:idx_puppy_date;size:10;not null" json:"date"` // YYYY-MM-DD
	BedTime *string `gorm:"size:5" json:"bed_time,omitempty"`
	Snacks  int     `json:"snacks"`
	Skills  string  `gorm:"type:text" json:"skills"`
	Notes   string  `gorm:"type:text" json:"notes"`

	PottyBreaks []PottyBreak `json:"potty_breaks"`
	Meals       []Meal       `json:"meals"`
	Naps        []Nap        `json:"naps"`
	WakeEvents  []WakeEvent  `json:"wake_events"`
}

type Outcome string

const (
	OutcomeUnset    Outcome = ""
	OutcomeGood     Outcome = "good"
	OutcomeAccident Outcome = "accident"
)

func (o Outcome) Valid() bool {
	return o == OutcomeUnset || o == OutcomeGood || o == OutcomeAccident
}

type PottyBreak struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	DayLogID  uint      `gorm:"index;not null" json:"-"`
	Time      string    `gorm:"size:5;not null" json:"time"` // HH:MM
	Pee       Outcome   `gorm:"size:16" json:"pee"`
	Poop      Outcome   `gorm:"size:16" json:"poop"`
	BellRung  bool      `json:"bell_rung"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type Meal struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	DayLogID  uint      `gorm:"index;not null" json:"-"`
	Time      string    `gorm:"size:5;not null" json:"time"`
	Given     string    `json:"given"` // e.g. "1/2 cup"
	Eaten     string    `json:"eaten"` // e.g. "All of it", "3/4"
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type Nap struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	DayLogID  uint      `gorm:"index;not null" json:"-"`
	Start     string    `gorm:"column:start_time;size:5;not null" json:"start"`
	End       string    `gorm:"column:end_time;size:5;not null" json:"end"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type WakeLabel string

const (
	MorningWake WakeLabel = "Morning Wake"
	NightWake   WakeLabel = "Night Wake"
)

type WakeEvent struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	DayLogID  uint      `gorm:"index;not null" json:"-"`
	Time      string    `gorm:"size:5;not null" json:"time"`
	Label     WakeLabel `gorm:"size:16;not null" json:"label"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Session{},
		&Puppy{}, &WeightEntry{}, &Membership{}, &Invitation{},
		&DayLog{}, &PottyBreak{}, &Meal{}, &Nap{}, &WakeEvent{},
		&HealthRecord{},
		&Alert{}, &UserDevice{},
	}
}
