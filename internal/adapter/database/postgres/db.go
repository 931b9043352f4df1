package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"pricelist/internal/adapter/database"
)

const DriverName = "pgx"

type Options struct {
	URL            string
	Pool           database.PoolConfig
	MigrationsPath string
}

// Open builds a pgx pool and exposes it through database/sql so the shared
// repositories can use it.
func Open(ctx context.Context, opts Options) (*database.DB, error) {
	if opts.URL == "" {
		return nil, errors.New("postgres url is not set")
	}

	poolCfg, err := pgxpool.ParseConfig(opts.URL)

	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}

	if opts.Pool.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(opts.Pool.MaxOpenConns)
	}

	if opts.Pool.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = opts.Pool.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)

	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if opts.MigrationsPath != "" {
		if err := RunMigrations(opts.URL, opts.MigrationsPath); err != nil {
			pool.Close()
			return nil, err
		}
	}

	db := database.New(stdlib.OpenDBFromPool(pool), DriverName, squirrel.Dollar)
	db.OnClose(pool.Close)

	return db, nil
}

// RunMigrations uses a dedicated connection since the migrate postgres driver
// pins one for its advisory lock.
func RunMigrations(url, path string) error {
	return withMigrate(url, path, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

func RollbackMigrations(url, path string) error {
	return withMigrate(url, path, func(m *migrate.Migrate) error {
		return m.Down()
	})
}

func withMigrate(url, path string, fn func(*migrate.Migrate) error) error {
	sqlDB, err := sql.Open(DriverName, url)

	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})

	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)

	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("create migration instance: %w", err)
	}

	defer m.Close()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate postgres: %w", err)
	}

	return nil
}
