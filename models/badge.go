package models

import "time"

// UserBadge records a permanently earned achievement. Badges are monotonic:
// once a row exists it is never deleted, and the unique index makes repeated
// awards a no-op.
type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_badge;not null" json:"user_id"`
	Badge     string    `gorm:"size:64;uniqueIndex:idx_user_badge;not null" json:"badge"`
	EarnedAt  time.Time `json:"earned_at"`
	CreatedAt time.Time `json:"created_at"`
}
