package main

import (
	"github.com/spf13/cobra"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
	Long:  `Manage the database schema and its contents.`,
	Args:  cobra.NoArgs,
	RunE:  requireSubcommand("migrate, down, status, reset"),
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
