package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"news_review/internal/domain"
)

func newStatusCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session, connectivity and last sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			sess, err := c.app.Session.Current(ctx)
			switch {
			case errors.Is(err, domain.ErrNotLoggedIn):
				fmt.Fprintln(out, "User:       not logged in")
			case err != nil:
				return err
			default:
				fmt.Fprintf(out, "User:       %s (%s)\n", sess.Username, sess.Role)
			}

			online := "offline"
			if c.app.Network.IsReachable() {
				online = "online"
			}
			fmt.Fprintf(out, "Network:    %s\n", online)

			state, err := c.app.SyncState.Get(ctx, c.app.Sync.SourceID())
			if err != nil {
				return err
			}

			last := "never"
			if !state.LastSyncedAt.IsZero() {
				last = state.LastSyncedAt.Local().Format(time.DateTime)
			}
			fmt.Fprintf(out, "Last sync:  %s\n", last)
			fmt.Fprintf(out, "Last pass:  %s\n", domain.SyncStatus{Kind: state.LastStatus, Reason: state.LastError})
			fmt.Fprintf(out, "Synced:     %d article writes\n", state.TotalSynced)
			return nil
		},
	}
}
