package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/utils"
)

// AdminController serves the management panel: account listing and the
// activity log. All routes are gated on the admin role.
type AdminController struct {
	accounts *services.AccountService
	activity *services.ActivityService
}

// NewAdminController creates an AdminController.
func NewAdminController(accounts *services.AccountService, activity *services.ActivityService) *AdminController {
	return &AdminController{accounts: accounts, activity: activity}
}

// ListUsers returns paginated accounts.
func (a *AdminController) ListUsers(ctx *gin.Context) {
	page, pageSize := 1, 10
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("page_size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	users, total, err := a.accounts.List((page-1)*pageSize, pageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to retrieve users")
		return
	}

	utils.Success(ctx, gin.H{
		"items": users,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// ListLogs returns recent activity entries, newest first, bounded.
func (a *AdminController) ListLogs(ctx *gin.Context) {
	limit := 0
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	entries, err := a.activity.Recent(limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to retrieve logs")
		return
	}
	utils.Success(ctx, gin.H{"items": entries})
}
