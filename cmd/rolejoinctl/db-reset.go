package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// dbResetCmd represents the db reset command
var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove all users, roles and role assignments",
	Long: `Remove all users, roles and role assignments.

Assignments are removed first, then roles, then users. The schema is kept.

Example:
  rolejoinctl db reset`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.store.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database reset")
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbResetCmd)
}
