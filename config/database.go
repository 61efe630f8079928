package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zukkoai/zukko-school/models"
)

var db *gorm.DB

// migration is one ordered, idempotent schema step. Migrations are additive
// only: existing columns are never renamed or removed, so database files
// written by older builds stay readable.
type migration struct {
	Version int
	Name    string
	Run     func(tx *gorm.DB) error
}

// schemaMigration tracks applied migration versions inside the database file.
type schemaMigration struct {
	Version   int `gorm:"primaryKey"`
	Name      string
	AppliedAt time.Time
}

func (schemaMigration) TableName() string { return "schema_migrations" }

var migrations = []migration{
	{
		Version: 1,
		Name:    "base schema",
		Run: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&models.User{},
				&models.ActivityLog{},
				&models.UserBadge{},
				&models.Note{},
				&models.QuizScore{},
			)
		},
	},
	{
		Version: 2,
		Name:    "users progression columns",
		Run: func(tx *gorm.DB) error {
			// Older database files predate the progression ledger; add its
			// columns when missing. AddColumn is a no-op guard via HasColumn.
			for _, col := range []string{"XP", "Level", "Streak", "TotalMessages", "LastActiveAt"} {
				if !tx.Migrator().HasColumn(&models.User{}, col) {
					if err := tx.Migrator().AddColumn(&models.User{}, col); err != nil {
						return fmt.Errorf("add users.%s: %w", col, err)
					}
				}
			}
			return nil
		},
	},
}

// InitDatabase opens the SQLite database file and applies pending migrations
// in order. The whole service persists into this single file.
func InitDatabase(path string) *gorm.DB {
	if db != nil {
		return db
	}

	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(Get().LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var err error
	db, err = gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gLogger})
	if err != nil {
		log.Fatalf("failed to open database %s: %v", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY under
	// concurrent requests.
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		log.Fatalf("schema migration failed: %v", err)
	}

	return db
}

// Migrate applies pending schema migrations in version order. Exported so
// tests can run it against their own database handles.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Model(&schemaMigration{}).Where("version = ?", m.Version).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Run(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: m.Version, Name: m.Name, AppliedAt: time.Now()}).Error
		}); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// OpenTestDatabase opens an isolated in-memory database with the full schema
// applied. Tests only.
func OpenTestDatabase() (*gorm.DB, error) {
	tdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(tdb); err != nil {
		return nil, err
	}
	return tdb, nil
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "warn", "info", "":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

// DB provides access to the initialized gorm DB instance.
func DB() *gorm.DB {
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}
