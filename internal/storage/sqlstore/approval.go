package sqlstore

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

// replaceApprovals swaps the stored approver set of an article for reviewers.
func replaceApprovals(ctx context.Context, exec sqlx.ExtContext, articleID string, reviewers []string) error {
	_, err := exec.ExecContext(ctx,
		exec.Rebind("DELETE FROM article_approvals WHERE article_id = ?"),
		articleID,
	)
	if err != nil {
		return storageErr("delete approvals", err)
	}

	if len(reviewers) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO article_approvals (article_id, reviewer) VALUES ")
	valueArgs := make([]any, 0, len(reviewers)*2)

	for i, reviewer := range reviewers {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?)")
		valueArgs = append(valueArgs, articleID, reviewer)
	}
	sb.WriteString(" ON CONFLICT DO NOTHING")

	if _, err := exec.ExecContext(ctx, exec.Rebind(sb.String()), valueArgs...); err != nil {
		return storageErr("insert approvals", err)
	}
	return nil
}

func insertApproval(ctx context.Context, exec sqlx.ExtContext, articleID, reviewer string) (bool, error) {
	res, err := exec.ExecContext(ctx,
		exec.Rebind("INSERT INTO article_approvals (article_id, reviewer) VALUES (?, ?) ON CONFLICT DO NOTHING"),
		articleID, reviewer,
	)
	if err != nil {
		return false, storageErr("insert approval", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("insert approval", err)
	}
	return n > 0, nil
}

func recomputeApproveCount(ctx context.Context, exec sqlx.ExtContext, articleID string) error {
	_, err := exec.ExecContext(ctx, exec.Rebind(`
		UPDATE article_metadata
		SET approve_count = (
			SELECT COUNT(*) FROM article_approvals
			WHERE article_approvals.article_id = article_metadata.article_id
		)
		WHERE article_id = ?`),
		articleID,
	)
	if err != nil {
		return storageErr("recompute approve count", err)
	}
	return nil
}

// loadApprovals groups approvers by article id. where is an optional
// WHERE clause over article_approvals.
func loadApprovals(ctx context.Context, exec sqlx.ExtContext, where string, args ...any) (map[string][]string, error) {
	query := "SELECT article_id, reviewer FROM article_approvals " + where + " ORDER BY article_id, reviewer"

	var rows []approvalRow
	if err := sqlx.SelectContext(ctx, exec, &rows, exec.Rebind(query), args...); err != nil {
		return nil, storageErr("load approvals", err)
	}

	result := make(map[string][]string)
	for _, row := range rows {
		result[row.ArticleID] = append(result[row.ArticleID], row.Reviewer)
	}
	return result, nil
}
