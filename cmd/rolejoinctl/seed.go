package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/rolejoin/pkg/seed"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load users, roles and role assignments",
	Long: `Load users, roles and role assignments from a YAML fixture.

Without a file the configured seed_file is used, and without that the
default fixture of two users and two roles with no assignments.

Example:
  rolejoinctl seed
  rolejoinctl seed fixture.yml --reset`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reset, _ := cmd.Flags().GetBool("reset")

		rt, err := openRuntime(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		path := rt.cfg.SeedFile
		if len(args) > 0 {
			path = args[0]
		}

		f := seed.Default()
		if path != "" {
			if f, err = seed.Load(path); err != nil {
				return err
			}
		}

		if err := seed.Apply(cmd.Context(), rt.store, f, reset); err != nil {
			return err
		}

		rt.log.Info("seed applied",
			zap.String("path", path),
			zap.Bool("reset", reset),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d users, %d roles, %d user roles\n",
			len(f.Users), len(f.Roles), len(f.UserRoles))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Bool("reset", false, "remove existing data before loading")
}
