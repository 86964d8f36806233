package database

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/quicklaunch/quicklaunch/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrDisabled is returned when no journal path is configured
var ErrDisabled = errors.New("failure journal is disabled")

type DB struct {
	*gorm.DB
}

// Connect opens the journal database at dbPath, creating its directory
func Connect(dbPath string) (*DB, error) {
	if dbPath == "" {
		return nil, ErrDisabled
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create journal directory")
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open journal database")
	}

	return &DB{db}, nil
}

func (db *DB) Initialize() error {
	if err := db.AutoMigrate(&models.FailureRecord{}); err != nil {
		return errors.Wrap(err, "failed to initialize journal schema")
	}
	return nil
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get underlying sql.DB")
	}
	return sqlDB.Close()
}
