package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every locally stored article and log out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Articles.ClearAll(cmd.Context()); err != nil {
				return err
			}
			if err := c.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Local data cleared")
			return nil
		},
	}
}
