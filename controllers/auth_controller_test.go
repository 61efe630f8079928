package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zukkoai/zukko-school/config"
	"github.com/zukkoai/zukko-school/middleware"
	"github.com/zukkoai/zukko-school/services"
	"github.com/zukkoai/zukko-school/utils"
)

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.SetForTesting(config.AppConfig{
		JWTSecret:    "test-secret",
		ChatRewardXP: 10,
	})
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()

	db, err := config.OpenTestDatabase()
	require.NoError(t, err)

	accounts := services.NewAccountService(db)
	progression := services.NewProgressionService(db)
	activity := services.NewActivityService(db)
	chat := services.NewChatService(nil, progression, activity, 10)

	controller := NewAuthController(accounts, progression, activity, chat)

	r := gin.New()
	r.POST("/api/v1/auth/register", controller.Register)
	r.POST("/api/v1/auth/login", controller.Login)
	r.POST("/api/v1/auth/logout", middleware.AuthRequired(), controller.Logout)
	r.GET("/api/v1/auth/me", middleware.AuthRequired(), controller.Me)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestRegisterLoginFlow(t *testing.T) {
	r := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "Alice",
		"password": "secret",
		"confirm":  "secret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeEnvelope(t, w)
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	// The password hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"username": "alice",
		"password": "secret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data = decodeEnvelope(t, w)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	// The first login of the day starts the streak.
	user = data["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data = decodeEnvelope(t, w)
	user = data["user"].(map[string]interface{})
	assert.Equal(t, float64(1), user["streak"])
}

func TestRegisterRejectsDuplicatesAndMismatch(t *testing.T) {
	r := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "alice", "password": "secret", "confirm": "secret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": " ALICE ", "password": "other1", "confirm": "other1",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "bob", "password": "secret", "confirm": "different",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "bob", "password": "abc", "confirm": "abc",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginBadCredentialsSingleMessage(t *testing.T) {
	r := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "alice", "password": "secret", "confirm": "secret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	wrongPassword := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"username": "alice", "password": "wrong",
	}, "")
	unknownUser := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"username": "nobody", "password": "secret",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	// Identical body for both failure modes.
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newAuthTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "alice", "password": "secret", "confirm": "secret",
	}, "")
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{
		"username": "alice", "password": "secret",
	}, "")
	token := decodeEnvelope(t, w)["token"].(string)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeRequiresToken(t *testing.T) {
	r := newAuthTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
