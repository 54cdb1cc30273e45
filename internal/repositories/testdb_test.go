package repositories

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"musegen/internal/models/db_models"
)

// newTestDB opens a throwaway sqlite database and runs the same migrations as
// internal/infra, so tests exercise the real schema — partial unique indexes
// included — rather than a fake.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&db_models.Account{},
		&db_models.Subscription{},
		&db_models.UsageRecord{},
		&db_models.GenerationRecord{},
		&db_models.Session{},
		&db_models.OneTimeCode{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}
