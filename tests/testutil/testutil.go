package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kendall-kelly/servicemen-api/config"
	"github.com/kendall-kelly/servicemen-api/migrations"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestJWTKey is the signing key used by tests that issue tokens
const TestJWTKey = "test-jwt-private-key"

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}

	// Verify it was set
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// NewTestDB opens a fresh SQLite database under t.TempDir() and applies
// every migration, including the permission seed. The connection is closed
// when the test finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "servicemen_test.db") + "?_foreign_keys=on"
	db, err := config.OpenDatabase(dsn)
	require.NoError(t, err, "Failed to open test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, migrations.Up(db), "Failed to migrate test database")
	return db
}

// NewTestConfig returns a configuration suitable for router and middleware tests
func NewTestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:        "sqlite://servicemen_test.db",
		Port:               "8080",
		GoEnv:              "test",
		JWTPrivateKey:      TestJWTKey,
		JWTIssuer:          "servicemen-api-test",
		JWTAudience:        "servicemen-api-test",
		CORSAllowedOrigins: []string{"*"},
		UploadDir:          os.TempDir(),
	}
}
