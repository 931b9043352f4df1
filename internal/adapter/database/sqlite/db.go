package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"

	"pricelist/internal/adapter/database"
)

const DriverName = "sqlite3"

type Options struct {
	DSN        string
	Pool       database.PoolConfig
	LogQueries bool
	// MigrationsPath is the directory holding the SQLite migrations. Empty
	// skips migrating.
	MigrationsPath string
}

// Open connects to SQLite with foreign keys enforced, traces every statement
// through otelsql and, when asked, logs statements with zerolog.
func Open(opts Options) (*database.DB, error) {
	dsn := withParams(opts.DSN, "_foreign_keys=1", "_busy_timeout=5000")

	sqlDB, err := otelsql.Open(DriverName, dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("pricelist"),
	)

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if opts.LogQueries {
		logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "sql").Logger()
		sqlDB = sqldblogger.OpenDriver(dsn, sqlDB.Driver(), zerologadapter.New(logger),
			sqldblogger.WithSQLQueryAsMessage(true),
		)
	}

	db := database.New(sqlDB, DriverName, squirrel.Question)

	if IsMemory(opts.DSN) {
		// every new connection to :memory: would see an empty database
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else {
		db.Configure(opts.Pool)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if opts.MigrationsPath != "" {
		if err := RunMigrations(db.DB, opts.MigrationsPath); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// RunMigrations applies every pending up migration found in path. The
// migrate instance is left open since closing it would close db.
func RunMigrations(db *sql.DB, path string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// RollbackMigrations reverts every applied migration.
func RollbackMigrations(db *sql.DB, path string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}

	return nil
}

func IsMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func withParams(dsn string, params ...string) string {
	for _, p := range params {
		key, _, _ := strings.Cut(p, "=")

		if strings.Contains(dsn, key+"=") {
			continue
		}

		sep := "?"

		if strings.Contains(dsn, "?") {
			sep = "&"
		}

		dsn += sep + p
	}

	return dsn
}
