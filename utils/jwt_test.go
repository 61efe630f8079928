package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zukkoai/zukko-school/config"
)

func TestGenerateAndParseToken(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	token, err := GenerateToken(7, "alice", "student", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "student", claims.Role)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	token, err := GenerateToken(1, "alice", "student", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, CheckPassword(hash, "secret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestTokenBlacklist(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	BlacklistToken("tok-1", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted("tok-1"))
	assert.False(t, IsTokenBlacklisted("tok-2"))

	// Expired entries fall out on read.
	BlacklistToken("tok-3", time.Now().Add(10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	assert.False(t, IsTokenBlacklisted("tok-3"))
}
