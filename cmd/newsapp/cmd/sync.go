package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"news_review/internal/domain"
	"news_review/internal/status"
)

func newSyncCmd(c *cli) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the local store with the remote service",
		Long: `Fetch the article list and details, merge server approvals with local
ones, store the result and push the merged set back.

Articles whose details cannot be fetched are skipped; the pass fails only
when the list fetch or the final push fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !quiet {
				errOut := cmd.ErrOrStderr()
				unsubscribe := c.app.Tracker.Subscribe(func(s status.Snapshot) {
					if s.Running() {
						fmt.Fprintf(errOut, "syncing... %3.0f%%\n", s.Progress*100)
					}
				})
				defer unsubscribe()
			}

			result, err := c.app.Sync.Sync(cmd.Context(), domain.TriggerManual)
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Sync succeeded: fetched %d, inserted %d, updated %d, skipped %d, pushed %d (%s)\n",
				result.Stats.Fetched,
				result.Stats.Inserted,
				result.Stats.Updated,
				result.Stats.Skipped,
				result.Stats.Pushed,
				result.Duration.Round(time.Millisecond),
			)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print progress")
	return cmd
}
