package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/utils"
)

// ProgressController exposes progression snapshots and the leaderboard.
type ProgressController struct {
	progression *services.ProgressionService
}

// NewProgressController creates a ProgressController.
func NewProgressController(progression *services.ProgressionService) *ProgressController {
	return &ProgressController{progression: progression}
}

// Me returns the authenticated user's progression snapshot.
func (p *ProgressController) Me(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	stats, err := p.progression.Snapshot(username)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to load stats")
		return
	}
	utils.Success(ctx, stats)
}

// Leaderboard returns the top students by XP, admins excluded. Results are
// briefly cached since the board is read far more than it changes.
func (p *ProgressController) Leaderboard(ctx *gin.Context) {
	topN := 10
	if v := ctx.Query("top"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			topN = n
		}
	}

	cacheKey := fmt.Sprintf("cache:leaderboard:top=%d", topN)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	entries, err := p.progression.Leaderboard(topN)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to load leaderboard")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"entries": entries}}
	utils.CacheSetJSON(cacheKey, wrapper, time.Minute)
	utils.Success(ctx, gin.H{"entries": entries})
}
