package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"news_review/internal/domain"
)

func newArticlesCmd(c *cli) *cobra.Command {
	var (
		pages int
		all   bool
	)

	cmd := &cobra.Command{
		Use:     "articles",
		Aliases: []string{"ls"},
		Short:   "List articles for the logged-in user",
		Long: `Authors see their own articles with approval counts. Reviewers see the
whole catalogue grouped by author, five articles per page.

Examples:
  newsapp articles
  newsapp articles --pages 2
  newsapp articles --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.session(cmd.Context())
			if err != nil {
				return err
			}

			wf := c.app.Review
			if err := wf.Load(cmd.Context(), sess); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if sess.Role == domain.RoleAuthor {
				printAuthored(out, wf.AuthorArticles())
				return nil
			}

			for i := 1; (all || i < pages) && wf.HasMore(); i++ {
				wf.NextPage()
			}

			shown := 0
			for _, section := range wf.Sections() {
				fmt.Fprintln(out, section.Author)
				for _, a := range section.Articles {
					mark := " "
					if a.ApprovedBy.Contains(sess.Username) {
						mark = "x"
					}
					fmt.Fprintf(out, "  [%s] %s  %s  (approvals: %d)\n", mark, a.ArticleID, a.Name, a.ApproveCount)
					shown++
				}
			}

			if shown == 0 {
				fmt.Fprintln(out, "No articles. Please sync the app.")
				return nil
			}
			revealed, total := wf.Shown()
			fmt.Fprintf(out, "Showing %d of %d articles\n", revealed, total)
			if wf.HasMore() {
				fmt.Fprintf(out, "-- more articles available, use --pages %d or --all --\n", pages+1)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of pages to reveal")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "reveal every page")
	return cmd
}

func printAuthored(out io.Writer, articles []domain.ArticleDisplayModel) {
	if len(articles) == 0 {
		fmt.Fprintln(out, "No articles. Please sync the app.")
		return
	}
	for _, a := range articles {
		approvers := "none"
		if a.ApprovedBy.Len() > 0 {
			approvers = strings.Join(a.ApprovedBy, ", ")
		}
		fmt.Fprintf(out, "%s  %s  (approvals: %d: %s)\n", a.ArticleID, a.Name, a.ApproveCount, approvers)
	}
}
