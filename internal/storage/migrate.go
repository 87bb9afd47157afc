package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded migrations for driver. It uses its own
// connection because closing the migrate instance closes the database.
func RunMigrations(driver, dsn string) error {
	m, err := newMigrate(driver, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// MigrationVersion reports the applied schema version.
func MigrationVersion(driver, dsn string) (uint, bool, error) {
	m, err := newMigrate(driver, dsn)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func newMigrate(driver, dsn string) (*migrate.Migrate, error) {
	var (
		sqlDriver string
		dir       string
	)
	switch driver {
	case DriverSQLite:
		sqlDriver, dir = DriverSQLite, "migrations/sqlite"
	case DriverPostgres:
		sqlDriver, dir = pgxDriverName, "migrations/postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	migrateDB, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}

	var dbDriver database.Driver
	if driver == DriverSQLite {
		dbDriver, err = sqlite.WithInstance(migrateDB, &sqlite.Config{})
	} else {
		dbDriver, err = migratepgx.WithInstance(migrateDB, &migratepgx.Config{})
	}
	if err != nil {
		migrateDB.Close()
		return nil, fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		dbDriver.Close()
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, dbDriver)
	if err != nil {
		dbDriver.Close()
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}

// DSN returns the connection string Open would use for opts.
func DSN(opts Options) (string, error) {
	_, dsn, err := dataSource(opts)
	return dsn, err
}
