package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zukkoai/zukko-school/models"
	"github.com/zukkoai/zukko-school/utils"
)

// badgeRule is one threshold predicate. Rules are evaluated in declaration
// order and a badge, once granted, is never removed.
type badgeRule struct {
	Name      string
	Satisfied func(u *models.User) bool
}

var badgeRules = []badgeRule{
	{"🌟 Birinchi Qadam", func(u *models.User) bool { return u.TotalMessages >= 1 }},
	{"💬 Suhbatdosh", func(u *models.User) bool { return u.TotalMessages >= 10 }},
	{"🔥 Faol O'quvchi", func(u *models.User) bool { return u.TotalMessages >= 50 }},
	{"🏆 Chempion", func(u *models.User) bool { return u.TotalMessages >= 100 }},
	{"📅 Uch Kunlik", func(u *models.User) bool { return u.Streak >= 3 }},
	{"⚡ Haftalik Qahramon", func(u *models.User) bool { return u.Streak >= 7 }},
	{"🎓 Bilimdon", func(u *models.User) bool { return u.Level >= 5 }},
	{"👑 Dono", func(u *models.User) bool { return u.Level >= 10 }},
}

// AccountStats is a read-only projection of an account's progression fields.
type AccountStats struct {
	Username      string    `json:"username"`
	XP            int       `json:"xp"`
	Level         int       `json:"level"`
	Streak        int       `json:"streak"`
	TotalMessages int       `json:"total_messages"`
	Badges        []string  `json:"badges"`
	JoinedAt      time.Time `json:"joined_at"`
}

// LeaderboardEntry is one row of the student leaderboard.
type LeaderboardEntry struct {
	Username string `json:"username"`
	XP       int    `gorm:"column:xp" json:"xp"`
	Level    int    `json:"level"`
	Streak   int    `json:"streak"`
}

// ProgressionService mutates the XP/level/streak/badge fields of accounts.
// All increments are single atomic UPDATE expressions so concurrent chat turns
// for the same user cannot lose updates.
type ProgressionService struct {
	db *gorm.DB
}

// NewProgressionService creates a ProgressionService.
func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{db: db}
}

// AddExperience atomically adds XP and one message to the account, then
// refreshes the derived level. Invariant: level = max(1, xp/100 + 1).
func (p *ProgressionService) AddExperience(username string, amount int) error {
	username = NormalizeUsername(username)
	err := p.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("username = ?", username).UpdateColumns(map[string]interface{}{
			"xp":             gorm.Expr("xp + ?", amount),
			"total_messages": gorm.Expr("total_messages + 1"),
			"updated_at":     time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		// SQLite's two-argument max() keeps the floor at level 1.
		return tx.Model(&models.User{}).Where("username = ?", username).
			UpdateColumn("level", gorm.Expr("max(1, xp / 100 + 1)")).Error
	})
	if err == nil {
		utils.InvalidateByPrefix("cache:leaderboard:")
	}
	return err
}

// UpdateStreak applies the daily-activity streak rules on login:
// one calendar day since the last activity extends the streak, a gap resets it
// to 1, a repeat login on the same day leaves it unchanged. The last-active
// timestamp is refreshed to the full precision of now in every branch.
func (p *ProgressionService) UpdateStreak(username string, now time.Time) error {
	username = NormalizeUsername(username)
	return p.db.Transaction(func(tx *gorm.DB) error {
		// SQLite serializes writers, so a plain read inside the transaction
		// is enough; no row locking clause needed.
		var user models.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		streak := 1
		if user.LastActiveAt != nil {
			switch calendarDaysBetween(*user.LastActiveAt, now) {
			case 0:
				streak = user.Streak
			case 1:
				streak = user.Streak + 1
			}
		}

		return tx.Model(&models.User{}).Where("username = ?", username).UpdateColumns(map[string]interface{}{
			"streak":         streak,
			"last_active_at": now,
			"updated_at":     time.Now(),
		}).Error
	})
}

// EvaluateBadges grants every badge whose threshold is newly satisfied and
// returns the newly earned names in rule order. Re-running with unchanged
// stats returns an empty list.
func (p *ProgressionService) EvaluateBadges(username string) ([]string, error) {
	username = NormalizeUsername(username)
	newBadges := []string{}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var owned []models.UserBadge
		if err := tx.Where("user_id = ?", user.ID).Find(&owned).Error; err != nil {
			return err
		}
		ownedSet := make(map[string]bool, len(owned))
		for _, b := range owned {
			ownedSet[b.Badge] = true
		}

		now := time.Now()
		for _, rule := range badgeRules {
			if ownedSet[rule.Name] || !rule.Satisfied(&user) {
				continue
			}
			// OnConflict keeps the grant idempotent under concurrent turns.
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserBadge{
				UserID:   user.ID,
				Badge:    rule.Name,
				EarnedAt: now,
			}).Error; err != nil {
				return err
			}
			newBadges = append(newBadges, rule.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newBadges, nil
}

// Snapshot returns the progression projection for an account. Zero-valued
// fields from older database files come back as their defaults; the level
// floor of 1 is enforced here as well.
func (p *ProgressionService) Snapshot(username string) (*AccountStats, error) {
	username = NormalizeUsername(username)

	var user models.User
	if err := p.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var owned []models.UserBadge
	if err := p.db.Where("user_id = ?", user.ID).Order("earned_at ASC, id ASC").Find(&owned).Error; err != nil {
		return nil, err
	}
	badges := make([]string, 0, len(owned))
	for _, b := range owned {
		badges = append(badges, b.Badge)
	}

	level := user.Level
	if level < 1 {
		level = 1
	}

	return &AccountStats{
		Username:      user.Username,
		XP:            user.XP,
		Level:         level,
		Streak:        user.Streak,
		TotalMessages: user.TotalMessages,
		Badges:        badges,
		JoinedAt:      user.CreatedAt,
	}, nil
}

// Leaderboard returns the top students by XP. Admin accounts are excluded;
// ties break on username so the ordering is deterministic.
func (p *ProgressionService) Leaderboard(topN int) ([]LeaderboardEntry, error) {
	if topN <= 0 {
		topN = 10
	}
	var entries []LeaderboardEntry
	err := p.db.Model(&models.User{}).
		Select("username, xp, level, streak").
		Where("role <> ?", models.RoleAdmin).
		Order("xp DESC, username ASC").
		Limit(topN).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// calendarDaysBetween returns the whole calendar days from a to b, ignoring
// clock time. Negative when b is before a's date.
func calendarDaysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}
