package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zukkoai/zukko-school/config"
	"github.com/zukkoai/zukko-school/controllers"
	"github.com/zukkoai/zukko-school/middleware"
	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/services/imagegen"
	"github.com/zukkoai/zukko-school/services/tts"
	"github.com/zukkoai/zukko-school/utils"
)

// Services bundles the wired services the router needs.
type Services struct {
	Accounts    *services.AccountService
	Activity    *services.ActivityService
	Progression *services.ProgressionService
	Notes       *services.NotesService
	Quizzes     *services.QuizService
	Chat        *services.ChatService
	Speech      *tts.Client
	Images      *imagegen.Client
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, svc Services) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(svc.Accounts, svc.Progression, svc.Activity, svc.Chat)
	chatController := controllers.NewChatController(svc.Chat, svc.Speech, svc.Images)
	notesController := controllers.NewNotesController(svc.Notes, svc.Activity)
	quizController := controllers.NewQuizController(svc.Quizzes, svc.Activity)
	progressController := controllers.NewProgressController(svc.Progression)
	statsController := controllers.NewStatsController(db, svc.Activity)
	configController := controllers.NewConfigController(svc.Chat)
	adminController := controllers.NewAdminController(svc.Accounts, svc.Activity)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public surface
	api.GET("/stats", statsController.GetStats)
	api.GET("/config/personas", configController.GetPersonas)
	api.GET("/config/status", configController.GetStatus)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.POST("/chat/messages", chatController.SendMessage)
	protected.GET("/chat/history", chatController.History)
	protected.POST("/chat/reset", chatController.Reset)
	protected.POST("/chat/tts", chatController.Speak)
	protected.GET("/chat/image", chatController.Illustrate)

	protected.POST("/notes", notesController.Create)
	protected.GET("/notes", notesController.List)
	protected.GET("/notes/:id", notesController.Get)
	protected.DELETE("/notes/:id", notesController.Delete)

	protected.POST("/quizzes/scores", quizController.Record)
	protected.GET("/quizzes/scores", quizController.History)

	protected.GET("/progress/me", progressController.Me)
	protected.GET("/progress/leaderboard", progressController.Leaderboard)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.AdminRequired())
	adminGroup.GET("/users", adminController.ListUsers)
	adminGroup.GET("/logs", adminController.ListLogs)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
