package models

import (
	"time"

	"gorm.io/gorm"
)

// Account roles. Authorization is a binary split: admins see the management
// panel and every user's data, students see only their own.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// User represents a Zukko School account. The username is the primary
// identifier, stored lowercased and trimmed. Passwords are stored as bcrypt
// hashes only.
//
// Progression fields (XP, Level, Streak, TotalMessages, LastActiveAt) are
// mutated exclusively by the progression ledger; Level is always derived as
// max(1, xp/100 + 1).
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Username      string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash  string         `gorm:"size:255" json:"-"`
	Role          string         `gorm:"size:16;default:student" json:"role"`
	XP            int            `gorm:"column:xp;default:0" json:"xp"`
	Level         int            `gorm:"default:1" json:"level"`
	Streak        int            `gorm:"default:0" json:"streak"`
	TotalMessages int            `gorm:"default:0" json:"total_messages"`
	LastActiveAt  *time.Time     `json:"last_active_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Badges        []UserBadge    `json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Level < 1 {
		u.Level = 1
	}
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
