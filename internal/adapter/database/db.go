package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
)

// DB couples a database/sql handle with a squirrel builder configured for the
// handle's placeholder style. Repositories are written once against it and run
// on SQLite and Postgres alike.
type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
	Driver       string
	onClose      []func()
}

func New(sqlDB *sql.DB, driver string, placeholder squirrel.PlaceholderFormat) *DB {
	builder := squirrel.StatementBuilder.PlaceholderFormat(placeholder)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &builder,
		Driver:       driver,
	}
}

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (db *DB) Configure(pool PoolConfig) {
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}

	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}

	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
}

// OnClose registers fn to run after the sql handle is closed.
func (db *DB) OnClose(fn func()) {
	db.onClose = append(db.onClose, fn)
}

func (db *DB) Close() error {
	err := db.DB.Close()

	for _, fn := range db.onClose {
		fn()
	}

	return err
}

func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}
