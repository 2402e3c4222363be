package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/rolejoin/pkg/model"
	"github.com/doodlesbykumbi/rolejoin/pkg/rolejoin"
)

// rolesCmd represents the roles command
var rolesCmd = &cobra.Command{
	Use:   "roles <user-id>",
	Short: "List every role with a user's assignments",
	Long: `List every role with the given user's assignments.

Every role is listed, in id order, whether the user holds it or not.

Example:
  rolejoinctl roles 1
  rolejoinctl roles 1 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("user id must be an integer: %s", args[0])
		}
		output, _ := cmd.Flags().GetString("output")

		rt, err := openRuntime(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		roles, err := rolejoin.NewService(rt.store, rt.log).RolesByUser(cmd.Context(), userID)
		if err != nil {
			return err
		}
		return writeRoles(cmd.OutOrStdout(), roles, output)
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
	rolesCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func writeRoles(w io.Writer, roles []model.Role, output string) error {
	switch output {
	case "json":
		data, err := json.MarshalIndent(roles, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "text":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tASSIGNED")
		for _, r := range roles {
			assigned := "no"
			if len(r.UserRoles) > 0 {
				assigned = "yes"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Name, assigned)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}
