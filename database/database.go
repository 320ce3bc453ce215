package database

import (
	"fmt"

	"contracts-app/config"
	"contracts-app/internal/domain/billing"
	"contracts-app/internal/domain/plans"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/domain/users"

	"github.com/charmbracelet/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() {
	if config.DB_URL == "" {
		log.Fatal("DB_URL not set")
	}

	level := logger.Warn
	if config.LOG_LEVEL == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(config.DB_URL), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		log.Fatal("Failed to connect to database", "err", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatal("AutoMigrate error", "err", err)
	}

	DB = db
	log.Info("Connected and migrated successfully")
}

// Models lists every table in dependency order.
func Models() []any {
	core := []any{
		// accounts
		&plans.Plan{},
		&users.User{},
		&users.VerificationToken{},
		&billing.Payment{},

		// tenancy
		&teams.Team{},
		&teams.Member{},
	}
	return append(core, records.All()...)
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
