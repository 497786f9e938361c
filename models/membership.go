package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r.rank() > 0 && r.rank() >= min.rank()
}

func (r Role) CanMutate() bool { return r.AtLeast(RoleEditor) }

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r.rank() == 0 {
		return "", false
	}
	return r, true
}

// Membership grants a user access to one puppy's dataset.
type Membership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PuppyID   uint      `gorm:"uniqueIndex:idx_member;not null" json:"puppy_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_member;not null" json:"user_id"`
	Role      Role      `gorm:"size:16;not null" json:"role"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Invitation struct {
	gorm.Model
	PuppyID    uint       `gorm:"index;not null" json:"puppy_id"`
	InvitedBy  uint       `json:"invited_by"`
	Email      string     `gorm:"index;not null" json:"email"`
	Role       Role       `gorm:"size:16;not null" json:"role"`
	Token      string     `gorm:"uniqueIndex;size:64;not null" json:"token"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}
