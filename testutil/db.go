package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"courtpro-backend/models"
)

// SetupTestDB opens an in-memory sqlite database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Member{},
		&models.Payment{},
		&models.Child{},
		&models.ChildPayment{},
		&models.MessageTemplate{},
		&models.ReminderLog{},
		&models.CheckIn{},
		&models.BulkMessageLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// SeedTemplates inserts the default message templates.
func SeedTemplates(t *testing.T, db *gorm.DB) {
	t.Helper()

	for kind, body := range models.DefaultTemplates {
		template := models.MessageTemplate{Kind: kind, Body: body}
		if err := db.Create(&template).Error; err != nil {
			t.Fatalf("Failed to seed template %s: %v", kind, err)
		}
	}
}
