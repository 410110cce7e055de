package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

// NewGormDBFromDSN opens a pooled postgres connection. SQL is logged in
// full outside production.
func NewGormDBFromDSN(dsn string, isProd bool) (*gorm.DB, error) {
	level := logger.Info
	if isProd {
		level = logger.Warn
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: getLogger(level),
		// Postgres keeps microseconds; timestamps read back must equal the
		// ones written.
		NowFunc: func() time.Time { return time.Now().Truncate(time.Microsecond) },
	})
	if err != nil {
		return nil, err
	}
	if err := configureConnectionPool(db); err != nil {
		return nil, err
	}
	return db, nil
}
