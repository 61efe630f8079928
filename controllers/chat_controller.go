package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zukkoai/zukko-school/config"
	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/services/imagegen"
	"github.com/zukkoai/zukko-school/services/tts"
	"github.com/zukkoai/zukko-school/utils"
)

// ChatController handles the chat loop and its optional audio/image
// enrichment endpoints.
type ChatController struct {
	chat   *services.ChatService
	speech *tts.Client
	images *imagegen.Client
}

// NewChatController creates a ChatController.
func NewChatController(chat *services.ChatService, speech *tts.Client, images *imagegen.Client) *ChatController {
	return &ChatController{chat: chat, speech: speech, images: images}
}

// SendMessage runs one chat turn and streams the reply as server-sent events:
// zero or more "delta" events, then either "done" with the turn summary or
// "error". The user message is kept in history even when the upstream call
// fails; XP is only charged on success.
func (c *ChatController) SendMessage(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
		Persona string `json:"persona"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	if req.Persona == "" {
		req.Persona = "universal"
	}

	if !c.chat.Configured() {
		utils.Error(ctx, http.StatusServiceUnavailable, 50330, "chat is not configured")
		return
	}
	if _, ok := services.PersonaByID(req.Persona); !ok {
		utils.Error(ctx, http.StatusBadRequest, 40031, "unknown persona")
		return
	}

	timeout := time.Duration(config.Get().ChatTimeoutSec) * time.Second
	turnCtx, cancel := context.WithTimeout(ctx.Request.Context(), timeout)
	defer cancel()

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")
	ctx.Writer.Flush()

	// onDelta runs synchronously inside the stream loop, so writing to the
	// response here is race-free.
	result, err := c.chat.SendMessage(turnCtx, username, req.Persona, req.Message, func(delta string) {
		ctx.SSEvent("delta", delta)
		ctx.Writer.Flush()
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChatNotConfigured):
			ctx.SSEvent("error", "chat is not configured")
		case errors.Is(err, services.ErrUnknownPersona):
			ctx.SSEvent("error", "unknown persona")
		default:
			utils.Sugar.Warnf("chat turn failed user=%s: %v", username, err)
			ctx.SSEvent("error", "the tutor is unavailable right now, please try again")
		}
		ctx.Writer.Flush()
		return
	}

	ctx.SSEvent("done", result)
	ctx.Writer.Flush()
}

// History returns the session-scoped chat history in chronological order.
func (c *ChatController) History(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	utils.Success(ctx, gin.H{"messages": c.chat.History(username)})
}

// Reset clears the session-scoped chat history.
func (c *ChatController) Reset(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	c.chat.Reset(username)
	utils.Success(ctx, gin.H{"message": "history cleared"})
}

// Speak converts a short reply to MP3 audio. A TTS failure is reported but is
// never an error the chat flow depends on.
func (c *ChatController) Speak(ctx *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
		Lang string `json:"lang"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid request payload")
		return
	}

	audio, err := c.speech.Speak(ctx.Request.Context(), utils.SanitizeStrict(req.Text), req.Lang)
	if err != nil {
		utils.Sugar.Debugf("tts failed: %v", err)
		utils.Error(ctx, http.StatusBadGateway, 50231, "no audio available")
		return
	}
	ctx.Data(http.StatusOK, "audio/mpeg", audio)
}

// Illustrate fetches a generated image for a prompt with a bounded timeout.
func (c *ChatController) Illustrate(ctx *gin.Context) {
	prompt := ctx.Query("prompt")
	if prompt == "" {
		utils.Error(ctx, http.StatusBadRequest, 40033, "missing prompt")
		return
	}

	timeout := time.Duration(config.Get().ImageTimeoutSec) * time.Second
	imgCtx, cancel := context.WithTimeout(ctx.Request.Context(), timeout)
	defer cancel()

	img, contentType, err := c.images.Generate(imgCtx, utils.SanitizeStrict(prompt))
	if err != nil {
		utils.Sugar.Debugf("image generation failed: %v", err)
		utils.Error(ctx, http.StatusBadGateway, 50232, "no image available")
		return
	}
	ctx.Data(http.StatusOK, contentType, img)
}
