package main

import (
	"time"

	"github.com/zukkoai/zukko-school/config"
	"github.com/zukkoai/zukko-school/routes"
	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/services/imagegen"
	"github.com/zukkoai/zukko-school/services/llm"
	"github.com/zukkoai/zukko-school/services/tts"
	"github.com/zukkoai/zukko-school/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(cfg.DatabasePath)

	accounts := services.NewAccountService(db)
	activity := services.NewActivityService(db)
	progression := services.NewProgressionService(db)
	notes := services.NewNotesService(db)
	quizzes := services.NewQuizService(db)

	// Admin bootstrap from configuration; idempotent, never user-facing.
	if err := accounts.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		utils.Sugar.Fatalf("admin bootstrap failed: %v", err)
	}

	completer := llm.New(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.ChatModel, cfg.ChatMaxTokens)
	if completer == nil {
		utils.Sugar.Warn("GROQ_API_KEY not set; chat endpoints are disabled, accounts and notes remain available")
	}

	var chatCompleter services.Completer
	if completer != nil {
		chatCompleter = completer
	}
	chat := services.NewChatService(chatCompleter, progression, activity, cfg.ChatRewardXP)

	r := routes.SetupRouter(db, routes.Services{
		Accounts:    accounts,
		Activity:    activity,
		Progression: progression,
		Notes:       notes,
		Quizzes:     quizzes,
		Chat:        chat,
		Speech:      tts.New(10 * time.Second),
		Images:      imagegen.New(time.Duration(cfg.ImageTimeoutSec) * time.Second),
	})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
