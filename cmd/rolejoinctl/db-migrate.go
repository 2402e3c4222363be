package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/rolejoin/pkg/db"
	gormstore "github.com/doodlesbykumbi/rolejoin/pkg/store/gorm"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending migrations for the sqlite or postgres
backend. The memory backend has no schema.

Example:
  rolejoinctl --backend postgres db migrate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *gormstore.Migrator) error {
			return runMigrations(cmd.OutOrStdout(), m)
		})
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

This command rolls back the specified number of migrations (default: 1).

Example:
  rolejoinctl db down      # Rollback 1 migration
  rolejoinctl db down 3    # Rollback 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive integer: %s", args[0])
			}
			steps = n
		}

		return withMigrator(cmd, func(m *gormstore.Migrator) error {
			if err := m.Down(steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
			return showMigrationStatus(cmd.OutOrStdout(), m)
		})
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *gormstore.Migrator) error {
			return showMigrationStatus(cmd.OutOrStdout(), m)
		})
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}

// withMigrator connects to the configured SQL backend and runs fn
func withMigrator(cmd *cobra.Command, fn func(*gormstore.Migrator) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.Backend.SQL() {
		return fmt.Errorf("the memory backend has no schema to migrate")
	}

	dbCfg := db.FromConfig(cfg, nil)
	database, err := db.Connect(dbCfg)
	if err != nil {
		return err
	}
	defer func() { _ = gormstore.NewStore(database).Close() }()

	m, err := gormstore.NewMigrator(database, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _ = m.Close() }()

	return fn(m)
}

func runMigrations(w io.Writer, m *gormstore.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Current version: %d (dirty: %v)\n", version, dirty)

	if err := m.Up(); err != nil {
		return err
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return err
	}
	if newVersion == version {
		fmt.Fprintln(w, "No migrations to run - database is up to date")
		return nil
	}
	fmt.Fprintf(w, "Migrated to version: %d\n", newVersion)
	return nil
}

func showMigrationStatus(w io.Writer, m *gormstore.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		fmt.Fprintln(w, "No migrations have been applied")
		return nil
	}
	fmt.Fprintf(w, "Current version: %d\n", version)
	if dirty {
		fmt.Fprintln(w, "WARNING: Database is in dirty state")
	}
	return nil
}
