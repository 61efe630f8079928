package models

import "time"

// ActivityLog is an append-only record of user actions. There is no update or
// delete path; retrieval is newest-first.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;index;not null" json:"username"`
	Action    string    `gorm:"size:255;not null" json:"action"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
