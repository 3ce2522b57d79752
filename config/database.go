package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrMissingDatabaseURL is returned when no connection URL is given
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

var DB *gorm.DB

// OpenDatabase opens a gorm connection for the given URL.
// postgres:// and postgresql:// URLs use PostgreSQL; sqlite://, file: and *.db use SQLite.
func OpenDatabase(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if dsn, ok := sqliteDSN(databaseURL); ok {
		dialector = sqlite.Open(dsn)
	} else {
		dialector = postgres.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		// Surface driver-specific unique violations as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// ConnectDatabase establishes the process-wide database connection
func ConnectDatabase(databaseURL string) error {
	if databaseURL == "" {
		return ErrMissingDatabaseURL
	}

	db, err := OpenDatabase(databaseURL)
	if err != nil {
		return err
	}
	DB = db

	log.Printf("Database connection established successfully (%s)", db.Dialector.Name())
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}

func sqliteDSN(databaseURL string) (string, bool) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return strings.TrimPrefix(databaseURL, "sqlite://"), true
	case strings.HasPrefix(databaseURL, "file:"):
		return databaseURL, true
	case strings.HasSuffix(databaseURL, ".db"):
		return databaseURL, true
	}
	return "", false
}
