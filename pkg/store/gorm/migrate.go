package gorm

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

//go:embed migrations
var migrations embed.FS

// MigrationsTable is the golang-migrate version table
const MigrationsTable = "rolejoin_schema_migrations"

// Migrator applies the embedded schema migrations for the store's dialect.
type Migrator struct {
	m *migrate.Migrate
	// src is closed on its own for sqlite, where closing m would also
	// close the shared *sql.DB
	src     source.Driver
	ownsAll bool
}

// NewMigrator prepares migrations for db.
//
// SQLite migrations run on db's own connection pool, which keeps
// ":memory:" databases usable. PostgreSQL migrations open a separate
// lib/pq connection to dsn.
func NewMigrator(db *gorm.DB, dsn string) (*Migrator, error) {
	dialect := db.Dialector.Name()

	src, err := iofs.New(migrations, "migrations/"+migrationsDir(dialect))
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	switch dialect {
	case "sqlite":
		sqlDB, err := db.DB()
		if err != nil {
			_ = src.Close()
			return nil, err
		}
		driver, err := migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{MigrationsTable: MigrationsTable})
		if err != nil {
			_ = src.Close()
			return nil, fmt.Errorf("failed to create sqlite migration driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
		if err != nil {
			_ = src.Close()
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		return &Migrator{m: m, src: src}, nil

	case "postgres":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			_ = src.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		driver, err := migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{MigrationsTable: MigrationsTable})
		if err != nil {
			_ = sqlDB.Close()
			_ = src.Close()
			return nil, fmt.Errorf("failed to create postgres migration driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
		if err != nil {
			_ = driver.Close()
			_ = src.Close()
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		return &Migrator{m: m, src: src, ownsAll: true}, nil

	default:
		_ = src.Close()
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}
}

func migrationsDir(dialect string) string {
	if dialect == "sqlite" {
		return "sqlite3"
	}
	return dialect
}

// Up applies all pending migrations. Being up to date is not an error.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations
func (m *Migrator) Down(steps int) error {
	if err := m.m.Steps(-steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// Version returns the current schema version. A database with no
// migrations applied reports version 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close releases the migration source, and for postgres the migration
// connection. The GORM pool is left open.
func (m *Migrator) Close() error {
	if m.ownsAll {
		srcErr, dbErr := m.m.Close()
		return errors.Join(srcErr, dbErr)
	}
	return m.src.Close()
}

// Migrate applies all pending migrations to db
func Migrate(db *gorm.DB, dsn string) error {
	m, err := NewMigrator(db, dsn)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
