package main

import (
	"github.com/spf13/cobra"
)

// configurationCmd represents the configuration command
var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Manage rolejoin configuration",
	Long:  `Manage rolejoin configuration settings.`,
	Args:  cobra.NoArgs,
	RunE:  requireSubcommand("show"),
}

func init() {
	rootCmd.AddCommand(configurationCmd)
}
