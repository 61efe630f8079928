package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/utils"
)

// QuizController exposes the write-once quiz score history.
type QuizController struct {
	quizzes  *services.QuizService
	activity *services.ActivityService
}

// NewQuizController creates a QuizController.
func NewQuizController(quizzes *services.QuizService, activity *services.ActivityService) *QuizController {
	return &QuizController{quizzes: quizzes, activity: activity}
}

// Record appends one quiz attempt for the authenticated user.
func (q *QuizController) Record(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Subject string `json:"subject" binding:"required"`
		Score   int    `json:"score"`
		Total   int    `json:"total" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	record, err := q.quizzes.Record(username, req.Subject, req.Score, req.Total)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSubject) {
			utils.Error(ctx, http.StatusBadRequest, 40051, "invalid subject")
			return
		}
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid score")
		return
	}

	q.activity.Record(username, fmt.Sprintf("Test yakunlandi: %s %d/%d", record.Subject, record.Score, record.Total))
	utils.Success(ctx, gin.H{"score": record})
}

// History returns the user's attempts, newest first, bounded.
func (q *QuizController) History(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	limit := 0
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	records, err := q.quizzes.History(username, limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load quiz history")
		return
	}
	utils.Success(ctx, gin.H{"scores": records})
}
