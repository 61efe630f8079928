package models

import "time"

// Note is a per-user free-text note with a subject tag. Notes are created and
// deleted by their owner; there is no update-in-place.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;index;not null" json:"username"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Subject   string    `gorm:"size:32;not null" json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

// NoteSummary is the listing projection of a note; the body is deliberately
// excluded from list views.
type NoteSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}
