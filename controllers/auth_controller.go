package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController handles registration, login and logout.
type AuthController struct {
	accounts    *services.AccountService
	progression *services.ProgressionService
	activity    *services.ActivityService
	chat        *services.ChatService
}

// NewAuthController creates an AuthController.
func NewAuthController(accounts *services.AccountService, progression *services.ProgressionService, activity *services.ActivityService, chat *services.ChatService) *AuthController {
	return &AuthController{accounts: accounts, progression: progression, activity: activity, chat: chat}
}

// Register creates a student account. Registration does not log the user in.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Confirm  string `json:"confirm" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	if strings.TrimSpace(req.Username) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username cannot be empty")
		return
	}
	if len(req.Password) < services.MinPasswordLength {
		utils.Error(ctx, http.StatusBadRequest, 40003, "password too short")
		return
	}
	if req.Password != req.Confirm {
		utils.Error(ctx, http.StatusBadRequest, 40004, "passwords do not match")
		return
	}

	user, err := a.accounts.Register(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyExists) {
			utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to create account")
		return
	}

	a.activity.Record(user.Username, "Ro'yxatdan o'tdi")
	utils.Success(ctx, gin.H{"user": user})
}

// Login verifies credentials, issues a JWT and applies the daily streak rules.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, "invalid request payload")
		return
	}

	user, err := a.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			// One message for both unknown user and wrong password.
			utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50002, "login failed, try again")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	if err := a.progression.UpdateStreak(user.Username, time.Now()); err != nil {
		utils.Sugar.Warnf("streak update failed user=%s: %v", user.Username, err)
	}
	a.activity.Record(user.Username, "Tizimga kirdi")

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the token until its natural expiration and drops the user's
// chat session.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenLifetime)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)
	a.chat.EndSession(claims.Username)
	a.activity.Record(claims.Username, "Chiqdi")

	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated account.
func (a *AuthController) Me(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	user, err := a.accounts.Get(username)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to load user")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}
