package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zukkoai/zukko-school/models"
)

// DefaultQuizHistoryLimit bounds the history window.
const DefaultQuizHistoryLimit = 20

// QuizService stores write-once quiz attempt records.
type QuizService struct {
	db *gorm.DB
}

// NewQuizService creates a QuizService.
func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

// Record appends one quiz attempt.
func (q *QuizService) Record(username, subject string, score, total int) (*models.QuizScore, error) {
	if !ValidSubject(subject) {
		return nil, ErrInvalidSubject
	}
	if total <= 0 || score < 0 || score > total {
		return nil, errors.New("score out of range")
	}

	record := models.QuizScore{
		Username: NormalizeUsername(username),
		Subject:  subject,
		Score:    score,
		Total:    total,
	}
	if err := q.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// History returns the user's attempts newest-first, capped to the bounded
// window.
func (q *QuizService) History(username string, limit int) ([]models.QuizScore, error) {
	if limit <= 0 || limit > DefaultQuizHistoryLimit {
		limit = DefaultQuizHistoryLimit
	}
	var records []models.QuizScore
	err := q.db.Where("username = ?", NormalizeUsername(username)).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
