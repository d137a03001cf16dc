package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ithesk/axeweb/internal/infrastructure/repositories"
)

// Open creates a connection to the shop database.
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate creates the tables owned by the portal. Repair order tables
// belong to the shop backend and are never migrated from here; only the
// authorization table is ours.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBAuthorization{}); err != nil {
		return fmt.Errorf("failed to migrate authorizations table: %w", err)
	}
	return nil
}
