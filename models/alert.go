package models

import "time"

type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	PuppyID   uint      `gorm:"index" json:"puppy_id"`
	Type      string    `gorm:"size:20" json:"type"` // "warning" | "info"
	Message   string    `gorm:"type:text" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
