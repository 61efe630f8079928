package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/utils"
)

// NotesController exposes the per-user notes store.
type NotesController struct {
	notes    *services.NotesService
	activity *services.ActivityService
}

// NewNotesController creates a NotesController.
func NewNotesController(notes *services.NotesService, activity *services.ActivityService) *NotesController {
	return &NotesController{notes: notes, activity: activity}
}

// Create saves a new note for the authenticated user.
func (n *NotesController) Create(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Title   string `json:"title" binding:"required"`
		Body    string `json:"body"`
		Subject string `json:"subject" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	note, err := n.notes.Save(username, req.Title, req.Body, req.Subject)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSubject) {
			utils.Error(ctx, http.StatusBadRequest, 40041, "invalid subject")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to save note")
		return
	}

	n.activity.Record(username, "Eslatma saqlandi: "+note.Title)
	utils.Success(ctx, gin.H{"note": note})
}

// List returns the user's note summaries, newest first.
func (n *NotesController) List(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	summaries, err := n.notes.List(username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list notes")
		return
	}
	utils.Success(ctx, gin.H{"notes": summaries})
}

// Get returns a full note; owners and admins only.
func (n *NotesController) Get(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid note id")
		return
	}

	note, err := n.notes.Read(username, isAdmin(ctx), id)
	if err != nil {
		respondNoteError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"note": note})
}

// Delete removes a note; owners and admins only.
func (n *NotesController) Delete(ctx *gin.Context) {
	username, ok := getUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid note id")
		return
	}

	if err := n.notes.Delete(username, isAdmin(ctx), id); err != nil {
		respondNoteError(ctx, err)
		return
	}
	n.activity.Record(username, "Eslatma o'chirildi")
	utils.Success(ctx, gin.H{"message": "note deleted"})
}

func respondNoteError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40440, "note not found")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40340, "not allowed")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50042, "note operation failed")
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
