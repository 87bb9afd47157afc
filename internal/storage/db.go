// Package storage persists users, passcodes, trips, budgets, categories and
// expenses in SQLite or Postgres. Every query that touches user data is
// scoped by user_id.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// database/sql driver name registered by pgx/v5/stdlib
	pgxDriverName = "pgx"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Options selects and locates the database.
type Options struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
}

// Store owns the connection pool. Its embedded Queries run outside any
// transaction; use WithTx for multi-statement writes.
type Store struct {
	*Queries
	db     *sqlx.DB
	driver string
}

// NewStore wraps an already opened pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{Queries: New(db), db: db, driver: db.DriverName()}
}

// Open connects, verifies the connection and applies pending migrations.
func Open(ctx context.Context, opts Options) (*Store, error) {
	driverName, dsn, err := dataSource(opts)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}
	if opts.Driver == DriverSQLite {
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY
		// between pooled connections.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(opts.Driver, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return NewStore(db), nil
}

func dataSource(opts Options) (driverName, dsn string, err error) {
	switch opts.Driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(opts.SQLitePath), 0755); err != nil {
			return "", "", fmt.Errorf("create db directory: %w", err)
		}
		return DriverSQLite, sqliteDSN(opts.SQLitePath), nil
	case DriverPostgres:
		if opts.DatabaseURL == "" {
			return "", "", fmt.Errorf("postgres driver requires a database URL")
		}
		return pgxDriverName, opts.DatabaseURL, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Driver returns "sqlite" or "postgres".
func (s *Store) Driver() string {
	if s.driver == pgxDriverName {
		return DriverPostgres
	}
	return s.driver
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// WithTx runs fn inside a transaction. The transaction is rolled back when
// fn returns an error or panics, and committed otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(New(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
