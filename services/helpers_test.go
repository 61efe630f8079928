package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zukkoai/zukko-school/config"
	"github.com/zukkoai/zukko-school/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Redis stays off in tests; in-memory fallbacks take over.
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret", ChatRewardXP: 10})
	db, err := config.OpenTestDatabase()
	require.NoError(t, err)
	return db
}

func createStudent(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		Role:         models.RoleStudent,
		Level:        1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
