package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/zukkoai/zukko-school/models"
	"github.com/zukkoai/zukko-school/utils"
)

// MinPasswordLength is the historical minimum carried over from the original
// product; the HTTP layer additionally checks the confirmation field.
const MinPasswordLength = 4

// AccountService owns account identity and authentication fields. Progression
// fields on the same row belong to ProgressionService.
type AccountService struct {
	db *gorm.DB
}

// NewAccountService creates an AccountService.
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register creates a student account with zeroed progression. Returns
// ErrAlreadyExists when the normalized username is taken.
func (a *AccountService) Register(username, password string) (*models.User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if len(password) < MinPasswordLength {
		return nil, errors.New("password too short")
	}

	var existing models.User
	if err := a.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		Level:        1,
	}
	if err := a.db.Create(&user).Error; err != nil {
		// The unique index is the authority under concurrent registration.
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials and returns the account snapshot. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (a *AccountService) Authenticate(username, password string) (*models.User, error) {
	username = NormalizeUsername(username)

	var user models.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get returns the account for a normalized username.
func (a *AccountService) Get(username string) (*models.User, error) {
	var user models.User
	if err := a.db.Where("username = ?", NormalizeUsername(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns accounts ordered by join date, newest first, without hashes.
func (a *AccountService) List(offset, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64
	if err := a.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := a.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// EnsureAdmin upserts the bootstrap admin account once at process start. It is
// idempotent: an existing account with this username is left untouched.
func (a *AccountService) EnsureAdmin(username, password string) error {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return nil
	}

	var existing models.User
	err := a.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return a.db.Create(&models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Level:        1,
	}).Error
}
