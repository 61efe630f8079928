package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/zukkoai/zukko-school/middleware"
	"github.com/zukkoai/zukko-school/models"
)

func getUsername(ctx *gin.Context) (string, bool) {
	v, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return "", false
	}
	username, ok := v.(string)
	return username, ok && username != ""
}

func isAdmin(ctx *gin.Context) bool {
	v, exists := ctx.Get(middleware.ContextRoleKey)
	if !exists {
		return false
	}
	role, ok := v.(string)
	return ok && role == models.RoleAdmin
}
