package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/zukkoai/zukko-school/models"
	"github.com/zukkoai/zukko-school/utils"
)

// DefaultActivityLimit bounds admin log views when no limit is given.
const DefaultActivityLimit = 100

// ActivityService is the append-only activity log.
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService creates an ActivityService.
func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record appends one entry. Log-store failures never abort the triggering user
// action; they are logged and swallowed here.
func (s *ActivityService) Record(username, action string) {
	entry := models.ActivityLog{
		Username: NormalizeUsername(username),
		Action:   action,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("activity log write failed user=%s action=%q: %v", entry.Username, action, err)
		}
	}
}

// Recent returns entries newest-first, bounded by limit.
func (s *ActivityService) Recent(limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	var entries []models.ActivityLog
	if err := s.db.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ActiveToday counts distinct users with at least one entry today; feeds the
// public stats endpoint.
func (s *ActivityService) ActiveToday(now time.Time) (int64, error) {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	err := s.db.Model(&models.ActivityLog{}).
		Where("created_at >= ?", todayStart).
		Distinct("username").
		Count(&count).Error
	return count, err
}
