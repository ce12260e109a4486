package configsdatabase

import (
	"time"

	"rendezvous.club/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDatabase opens the PostgreSQL connection pool and keeps it as the
// package-level handle returned by GetDB.
func InitDatabase(dsn string) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		configslog.Log.Error("Database connection failed", zap.Error(err))
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	db = gormDB
	configslog.SLog.Info("Database connection established")
	return db, nil
}

// CloseDB releases the connection pool.
func CloseDB() {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// SetDB replaces the global handle. Used by tests to point the stack at an
// in-memory database.
func SetDB(gormDB *gorm.DB) { db = gormDB }

// GetDB returns the shared *gorm.DB.
func GetDB() *gorm.DB { return db }
