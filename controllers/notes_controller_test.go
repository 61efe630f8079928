package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zukkoai/zukko-school/config"
	"github.com/zukkoai/zukko-school/middleware"
	"github.com/zukkoai/zukko-school/models"
	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/utils"
)

func newNotesTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()

	db, err := config.OpenTestDatabase()
	require.NoError(t, err)

	controller := NewNotesController(services.NewNotesService(db), services.NewActivityService(db))

	r := gin.New()
	notes := r.Group("/api/v1/notes", middleware.AuthRequired())
	notes.POST("", controller.Create)
	notes.GET("", controller.List)
	notes.GET("/:id", controller.Get)
	notes.DELETE("/:id", controller.Delete)
	return r
}

func tokenFor(t *testing.T, username, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(1, username, role, time.Hour)
	require.NoError(t, err)
	return token
}

func TestNotesCreateListDelete(t *testing.T) {
	r := newNotesTestRouter(t)
	token := tokenFor(t, "alice", models.RoleStudent)

	w := doJSON(t, r, http.MethodPost, "/api/v1/notes", gin.H{
		"title": "T", "body": "B", "subject": "IT",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	note := decodeEnvelope(t, w)["note"].(map[string]interface{})
	assert.Equal(t, "T", note["title"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/notes", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeEnvelope(t, w)["notes"].([]interface{})
	require.Len(t, list, 1)
	// Summaries omit the body.
	assert.NotContains(t, w.Body.String(), `"body"`)

	w = doJSON(t, r, http.MethodGet, "/api/v1/notes/1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	note = decodeEnvelope(t, w)["note"].(map[string]interface{})
	assert.Equal(t, "B", note["body"])

	w = doJSON(t, r, http.MethodDelete, "/api/v1/notes/1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/notes", nil, token)
	list = decodeEnvelope(t, w)["notes"].([]interface{})
	assert.Empty(t, list)
}

func TestNotesOwnershipOverHTTP(t *testing.T) {
	r := newNotesTestRouter(t)
	alice := tokenFor(t, "alice", models.RoleStudent)
	bob := tokenFor(t, "bob", models.RoleStudent)
	admin := tokenFor(t, "admin", models.RoleAdmin)

	w := doJSON(t, r, http.MethodPost, "/api/v1/notes", gin.H{
		"title": "T", "body": "B", "subject": "IT",
	}, alice)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/notes/1", nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/api/v1/notes/1", nil, bob)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/notes/1", nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNotesValidationOverHTTP(t *testing.T) {
	r := newNotesTestRouter(t)
	token := tokenFor(t, "alice", models.RoleStudent)

	w := doJSON(t, r, http.MethodPost, "/api/v1/notes", gin.H{
		"title": "T", "body": "B", "subject": "Kimyo",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/notes/999", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/notes/abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/notes", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
