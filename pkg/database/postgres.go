// Package database wraps a *sql.DB with the transactional-context helper the
// Design Notes call for: a Store abstraction exposing WithTransaction(fn)
// where fn receives a transactional handle, replacing the source's global
// connection/session object with a scoped resource injected at startup.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"flightcore/internal/config"

	_ "github.com/lib/pq"
)

// DB represents a PostgreSQL connection pool, constructed once at startup
// and shut down on exit.
type DB struct {
	*sql.DB
}

// NewPostgresConnection creates a new PostgreSQL database connection.
func NewPostgresConnection(cfg *config.DatabaseConfig) (*DB, error) {
	dsn := cfg.URL
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	return &DB{db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}

// Tx is the transactional context handed to WithTransaction's callback. It
// exposes exactly the subset of *sql.Tx repositories need, so repositories
// can run identically inside or outside an explicit transaction by accepting
// this interface instead of *sql.DB directly.
type Tx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// WithTransaction runs fn inside a single database transaction, committing on
// a nil return and rolling back otherwise. It is the scoped resource the
// Design Notes ask for in place of the source's ambient session object.
func (db *DB) WithTransaction(ctx context.Context, fn func(tx Tx) error) error {
	sqlTx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(sqlTx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
