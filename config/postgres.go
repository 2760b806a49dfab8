package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"PartyHub/models/postgres"
	"PartyHub/utils/logger"
)

// ConnectGORM returns a GORM DB instance connected to the Supabase Postgres
// database named by DATABASE_URL.
func ConnectGORM(cfg *Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db, err := OpenGORM(sqlDB, cfg.VerbosePostgres)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Infof("Successfully connected to PostgreSQL with GORM")
	return db, nil
}

// OpenGORM wraps an already opened connection. Simple protocol keeps the
// Supabase connection pooler happy (no server-side prepared statements).
func OpenGORM(sqlDB *sql.DB, verbose bool) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if verbose {
		gormConfig.Logger = gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Info,
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		)
	}

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return db, nil
}

// MigrateDatabase migrates the GORM models to the PostgreSQL database
func MigrateDatabase(db *gorm.DB) error {
	err := db.AutoMigrate(
		postgres.Profile{},
		postgres.UserStats{},
		postgres.ProGrant{})
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	logger.Infof("PostgreSQL database migrated successfully")
	return nil
}
