package database

import (
	"fmt"

	"github.com/NewLouwa/CookieTrading/internal/config"
	"github.com/NewLouwa/CookieTrading/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New creates a new database connection and performs auto-migration.
func New(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema and seeds the trader-count
// singleton when the table is empty.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Position{},
		&models.Trade{},
		&models.Holding{},
		&models.TraderCount{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	var count int64
	if err := db.Model(&models.TraderCount{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check trader count: %w", err)
	}
	if count == 0 {
		if err := db.Create(&models.TraderCount{Count: 0}).Error; err != nil {
			return fmt.Errorf("failed to seed trader count: %w", err)
		}
	}

	return nil
}

// Reset drops every table and rebuilds an empty schema. Destructive:
// callers are expected to confirm with the user first.
func Reset(db *gorm.DB) error {
	err := db.Migrator().DropTable(
		&models.Trade{},
		&models.Holding{},
		&models.Position{},
		&models.TraderCount{},
	)
	if err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	return Migrate(db)
}
