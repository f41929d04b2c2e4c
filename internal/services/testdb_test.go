package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/editorialstats/backend/internal/models"
)

// openTestDB opens a private in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	// A single connection keeps every query on the same in-memory store.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Publisher{},
		&models.Journal{},
		&models.Submission{},
		&models.EvidenceFile{},
		&models.ModerationLog{},
		&models.PlatformSettings{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
