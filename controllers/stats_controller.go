package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zukkoai/zukko-school/models"
	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/utils"
)

// StatsController provides aggregate usage statistics.
type StatsController struct {
	db       *gorm.DB
	activity *services.ActivityService
}

// NewStatsController creates a StatsController.
func NewStatsController(db *gorm.DB, activity *services.ActivityService) *StatsController {
	return &StatsController{db: db, activity: activity}
}

// GetStats returns aggregate counters. Individual query failures fall back to
// zero instead of failing the whole endpoint.
func (s *StatsController) GetStats(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:stats"); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var userCount int64
	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		userCount = 0
	}

	var messageCount int64
	if err := s.db.Model(&models.User{}).Select("COALESCE(SUM(total_messages),0)").Scan(&messageCount).Error; err != nil {
		messageCount = 0
	}

	var noteCount int64
	if err := s.db.Model(&models.Note{}).Count(&noteCount).Error; err != nil {
		noteCount = 0
	}

	activeToday, err := s.activity.ActiveToday(time.Now())
	if err != nil {
		activeToday = 0
	}

	payload := gin.H{
		"user_count":         userCount,
		"message_count":      messageCount,
		"note_count":         noteCount,
		"active_today_count": activeToday,
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON("cache:stats", wrapper, time.Minute)
	utils.Success(ctx, payload)
}
