package models

import "time"

// QuizScore is a write-once record of one quiz attempt.
type QuizScore struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;index;not null" json:"username"`
	Subject   string    `gorm:"size:32;not null" json:"subject"`
	Score     int       `gorm:"not null" json:"score"`
	Total     int       `gorm:"not null" json:"total"`
	CreatedAt time.Time `json:"created_at"`
}
