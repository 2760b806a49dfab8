// Command migrate creates or updates the PartyHub tables and exits.
package main

import (
	"PartyHub/config"
	"PartyHub/utils/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Error loading configuration: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.Prod); err != nil {
		logger.Fatalf("Error setting up logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.ConnectGORM(cfg)
	if err != nil {
		logger.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	if err := config.MigrateDatabase(db); err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}
}
