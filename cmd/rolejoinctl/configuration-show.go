package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/rolejoin/pkg/config"
)

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show rolejoin configuration attributes and their sources",
	Long: `Show rolejoin configuration attributes and their sources.

Values come from defaults, the config file, the environment and the
global flags, in that order of precedence.

Config file location: /etc/rolejoin/config/rolejoin.yml (or ROLEJOIN_CONFIG_PATH)

Example:
  rolejoinctl configuration show
  rolejoinctl configuration show --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return showConfiguration(cmd.OutOrStdout(), cfg, output)
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showConfiguration(w io.Writer, cfg *config.Config, output string) error {
	if output == "json" {
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, jsonOutput)
		return err
	}

	_, err := fmt.Fprint(w, cfg.FormatText())
	return err
}
