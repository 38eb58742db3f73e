package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"news_review/internal/domain"
)

var errAuthorCannotApprove = errors.New("only reviewers can approve articles")

func newApproveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <article-id>...",
		Short: "Approve one or more articles as the logged-in reviewer",
		Long: `Record the logged-in reviewer as approver of the given articles.

Approvals are stored locally and reach the remote service on the next sync.
A network connection is still required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			if sess.Role != domain.RoleReviewer {
				return errAuthorCannotApprove
			}

			wf := c.app.Review
			if err := wf.Load(cmd.Context(), sess); err != nil {
				return err
			}
			for _, id := range args {
				if !wf.IsSelected(id) {
					wf.Toggle(id)
				}
			}

			added, err := wf.ApproveSelected(cmd.Context())
			if added > 0 || err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Approved %d article(s)\n", added)
			}
			return err
		},
	}
}
