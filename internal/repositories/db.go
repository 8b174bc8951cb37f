// Package repositories provides the data access layer. It owns all database
// operations; services receive repository interfaces and never touch gorm
// directly.
package repositories

import (
	"log"
	"os"
	"time"

	"clinicpay/internal/config"
	"clinicpay/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBConfig holds database connection pool configuration.
type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

var defaultDBConfig = DBConfig{
	MaxIdleConns:    10,
	MaxOpenConns:    100,
	ConnMaxLifetime: time.Hour,
	ConnMaxIdleTime: time.Minute * 30,
}

// InitDB opens the PostgreSQL connection, configures pooling, and migrates
// the wallet schema. The handle is returned to the caller for injection; no
// package-level global is kept.
func InitDB() (*gorm.DB, error) {
	dsn := "host=" + config.GetEnv("DB_HOST", "localhost") +
		" user=" + config.GetEnv("DB_USER", "postgres") +
		" password=" + config.GetEnv("DB_PASSWORD", "postgres") +
		" dbname=" + config.GetEnv("DB_NAME", "clinicpay") +
		" port=" + config.GetEnv("DB_PORT", "5432") +
		" sslmode=" + config.GetEnv("DB_SSLMODE", "disable")

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !config.IsProduction(),
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(config.GetIntEnv("DB_MAX_IDLE_CONNS", defaultDBConfig.MaxIdleConns))
	sqlDB.SetMaxOpenConns(config.GetIntEnv("DB_MAX_OPEN_CONNS", defaultDBConfig.MaxOpenConns))
	sqlDB.SetConnMaxLifetime(defaultDBConfig.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(defaultDBConfig.ConnMaxIdleTime)

	err = db.AutoMigrate(
		&models.Wallet{},
		&models.Transaction{},
		&models.WithdrawalRequest{},
		&models.CommissionRule{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("PostgreSQL connected, wallet schema migrated")
	return db, nil
}
