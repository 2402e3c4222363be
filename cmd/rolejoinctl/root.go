package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/rolejoin/pkg/config"
	"github.com/doodlesbykumbi/rolejoin/pkg/db"
	"github.com/doodlesbykumbi/rolejoin/pkg/logging"
	"github.com/doodlesbykumbi/rolejoin/pkg/store"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rolejoinctl",
	Short: "Query and manage user role assignments",
	Long: `rolejoinctl lists every role together with one user's assignments,
over an in-memory, SQLite or PostgreSQL store.

Settings come from the config file, then the environment, then flags.`,
	SilenceUsage: true,
}

// flagAttributes maps flags to the configuration attributes they override.
// Only flags defined on the running command apply.
var flagAttributes = map[string]string{
	"backend":      "backend",
	"database-url": "database_url",
	"log-level":    "log_level",
	"bind-address": "bind_address",
	"port":         "port",
	"watch":        "seed_file",
}

func init() {
	rootCmd.PersistentFlags().String("backend", "", "storage backend (memory, sqlite, postgres)")
	rootCmd.PersistentFlags().String("database-url", "", "database URL, or the shared database name for memory")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig loads the configuration and applies any flags set on cmd
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	for flag, attr := range flagAttributes {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := cfg.Override(attr, f.Value.String()); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// requireSubcommand is the RunE of a command that only groups subcommands.
// It prints the help and fails.
func requireSubcommand(names string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		_ = cmd.Help()
		return fmt.Errorf("command %q requires a subcommand (%s)", cmd.Name(), names)
	}
}

// runtime is what most commands need: configuration, a logger and a store
type runtime struct {
	cfg   *config.Config
	log   *zap.Logger
	store store.Store
}

func (r *runtime) Close() {
	_ = r.store.Close()
	_ = r.log.Sync()
}

func openRuntime(ctx context.Context, cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	s, err := db.Open(ctx, db.FromConfig(cfg, log))
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	return &runtime{cfg: cfg, log: log, store: s}, nil
}
