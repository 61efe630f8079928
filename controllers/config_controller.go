package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/utils"
)

// ConfigController serves the fixed vocabularies clients need to render
// pickers: personas, note subjects and whether chat is available.
type ConfigController struct {
	chat *services.ChatService
}

// NewConfigController creates a ConfigController.
func NewConfigController(chat *services.ChatService) *ConfigController {
	return &ConfigController{chat: chat}
}

// GetPersonas returns the fixed persona table in display order.
func (c *ConfigController) GetPersonas(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"personas": services.Personas()})
}

// GetStatus reports feature availability. Chat is down when no API key was
// configured; everything else keeps working.
func (c *ConfigController) GetStatus(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"chat_available": c.chat.Configured(),
		"subjects":       services.NoteSubjects,
	})
}
