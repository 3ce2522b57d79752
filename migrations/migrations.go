// Package migrations applies the versioned SQL schema and seed data.
// Each supported dialect has its own directory of golang-migrate files.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

const (
	// VersionCoreTables creates the tables
	VersionCoreTables uint = 1
	// VersionPermissionSeed inserts the All_READ, ALL_UPDATE and ALL_DELETE permissions
	VersionPermissionSeed uint = 2
)

// sharedDB keeps the driver from closing the *sql.DB it was given
type sharedDB struct {
	database.Driver
}

func (sharedDB) Close() error { return nil }

// New builds a migrate instance over db. Closing the instance releases only
// what it holds itself; db stays open.
func New(db *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	dialect := db.Dialector.Name()

	var driver database.Driver
	switch dialect {
	case "postgres":
		driver, err = postgresDriver(sqlDB)
	case "sqlite":
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
		if err == nil {
			driver = sharedDB{driver}
		}
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(files, dialect)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("failed to open %s migrations: %w", dialect, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dialect, driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// postgresDriver checks out a single connection for the migrator. The driver
// owns only that connection, so closing it hands the connection back to the pool.
func postgresDriver(sqlDB *sql.DB) (database.Driver, error) {
	ctx := context.Background()
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, err
	}
	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return driver, nil
}

func closeMigrate(m *migrate.Migrate) {
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		log.Printf("Warning: failed to close migrator: source=%v database=%v", srcErr, dbErr)
	}
}

// Up applies all pending migrations
func Up(db *gorm.DB) error {
	m, err := New(db)
	if err != nil {
		return err
	}
	defer closeMigrate(m)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Down reverts every applied migration
func Down(db *gorm.DB) error {
	m, err := New(db)
	if err != nil {
		return err
	}
	defer closeMigrate(m)
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to revert migrations: %w", err)
	}
	return nil
}

// Steps applies n migrations forward, or reverts |n| when n is negative
func Steps(db *gorm.DB, n int) error {
	m, err := New(db)
	if err != nil {
		return err
	}
	defer closeMigrate(m)
	if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to step migrations by %d: %w", n, err)
	}
	return nil
}

// Version returns the current schema version. A database with no applied
// migrations reports version 0.
func Version(db *gorm.DB) (version uint, dirty bool, err error) {
	m, err := New(db)
	if err != nil {
		return 0, false, err
	}
	defer closeMigrate(m)
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
