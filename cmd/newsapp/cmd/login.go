package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Log in as an author or reviewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.app.Session.Login(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s (%s)\n", result.Session.Username, result.Session.Role)
			if result.NeedsSync {
				fmt.Fprintln(out, "Please sync the app.")
			}
			return nil
		},
	}
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loggedIn, err := c.app.Session.IsLoggedIn(cmd.Context())
			if err != nil {
				return err
			}
			if !loggedIn {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			if err := c.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
