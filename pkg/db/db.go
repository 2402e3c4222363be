package db

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/rolejoin/pkg/config"
	"github.com/doodlesbykumbi/rolejoin/pkg/logging"
	"github.com/doodlesbykumbi/rolejoin/pkg/store"
	gormstore "github.com/doodlesbykumbi/rolejoin/pkg/store/gorm"
	"github.com/doodlesbykumbi/rolejoin/pkg/store/memory"
)

// DefaultSQLiteURL is used when the sqlite backend has no URL
const DefaultSQLiteURL = ":memory:"

// Config holds database connection configuration
type Config struct {
	Backend config.Backend
	// URL is the database URL. For postgres it defaults to the
	// DATABASE_URL env var, for memory it names a shared database.
	URL string
	// LogLevel "debug" turns on SQL statement logging
	LogLevel string
	// Logger receives SQL statement logs. Defaults to a no-op logger.
	Logger *zap.Logger
}

// FromConfig builds a Config from the application configuration
func FromConfig(cfg *config.Config, log *zap.Logger) Config {
	return Config{
		Backend:  cfg.Backend,
		URL:      cfg.DatabaseURL,
		LogLevel: cfg.LogLevel,
		Logger:   log,
	}
}

func (c Config) url() string {
	if c.URL != "" {
		return c.URL
	}
	switch c.Backend {
	case config.BackendPostgres:
		return os.Getenv("DATABASE_URL")
	case config.BackendSQLite:
		return DefaultSQLiteURL
	}
	return ""
}

// Connect establishes a GORM connection for the sqlite or postgres backend.
func Connect(cfg Config) (*gorm.DB, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// Default to silent logging unless the log level is debug
	logMode := logger.Silent
	if cfg.LogLevel == "debug" {
		logMode = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logging.NewGormLogger(log).LogMode(logMode),
	}

	dsn := cfg.url()
	var dialector gorm.Dialector
	switch cfg.Backend {
	case config.BackendPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required")
		}
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	case config.BackendSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q has no SQL connection", store.ErrUnknownBackend, cfg.Backend)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Backend == config.BackendSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// One connection keeps ":memory:" a single database and serialises writers
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return db, nil
}

// Open returns a ready store for the configured backend. SQL backends are
// migrated to the latest schema before the store is returned.
func Open(ctx context.Context, cfg Config) (store.Store, error) {
	switch {
	case cfg.Backend == config.BackendMemory:
		return memory.Open(cfg.URL), nil
	case !cfg.Backend.SQL():
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownBackend, cfg.Backend)
	}

	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	s := gormstore.NewStore(db)

	sqlDB, err := db.DB()
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if err := gormstore.Migrate(db, cfg.url()); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
