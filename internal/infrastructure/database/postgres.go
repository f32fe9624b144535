package database

import (
	"fmt"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codeclip-inc/lastly-auth/internal/infrastructure/repositories"
)

// Open creates a new database connection. Verbose SQL logging is only
// enabled in development.
func Open(dsn string, development bool) (*gorm.DB, error) {
	level := logger.Warn
	if development {
		level = logger.Info
	}

	config := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate creates the users and auth_histories tables and the casbin
// policy table used by the access enforcer.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBUser{}, &repositories.DBAuthHistory{}); err != nil {
		return fmt.Errorf("failed to migrate auth tables: %w", err)
	}

	// NewAdapterByDB migrates casbin_rule as a side effect
	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize Casbin GORM adapter: %w", err)
	}

	return nil
}
