package test

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"pricelist/internal/adapter/database"
	"pricelist/internal/adapter/database/sqlite"
)

// TestJWTSecret signs every token minted by tests.
const TestJWTSecret = "test-secret"

// findProjectRoot walks up from this file until it finds go.mod.
func findProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			break
		}

		dir = parent
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	log.Fatal("Could not find project root directory")
	return ""
}

func MigrationsPath(driver string) string {
	return filepath.Join(findProjectRoot(), "db", "migrations", driver)
}

// InitTestDB opens a private in-memory SQLite database with every migration
// applied.
func InitTestDB() *database.DB {
	db, err := sqlite.Open(sqlite.Options{
		DSN:            ":memory:",
		MigrationsPath: MigrationsPath("sqlite"),
	})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// SetupTestDB is InitTestDB bound to t's lifetime.
func SetupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db := InitTestDB()
	t.Cleanup(func() { db.Close() })

	return db
}
