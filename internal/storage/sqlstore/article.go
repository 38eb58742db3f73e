package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"news_review/internal/domain"
)

// ArticleStore keeps article metadata, details and approvals. Approve counts
// are always derived from the approvals table, never taken from callers.
type ArticleStore struct {
	db *sqlx.DB
	tm *TransactionManager
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db, tm: NewTransactionManager(db)}
}

type articleRow struct {
	ArticleID    string `db:"article_id"`
	Author       string `db:"author"`
	ApproveCount int    `db:"approve_count"`
	Name         string `db:"name"`
	Body         string `db:"body"`
	CreatedAt    string `db:"created_at"`
	UpdatedAt    string `db:"updated_at"`
}

type approvalRow struct {
	ArticleID string `db:"article_id"`
	Reviewer  string `db:"reviewer"`
}

const selectDisplay = `
	SELECT m.article_id, m.author, m.approve_count, d.name, d.body, d.created_at, d.updated_at
	FROM article_metadata m
	INNER JOIN article_details d ON d.article_id = m.article_id`

func (s *ArticleStore) UpsertMetadata(ctx context.Context, meta domain.ArticleMetadata) error {
	exec := GetExecutor(ctx, s.db)

	query := exec.Rebind(`
		INSERT INTO article_metadata (article_id, author, approve_count)
		VALUES (?, ?, (SELECT COUNT(*) FROM article_approvals WHERE article_id = ?))
		ON CONFLICT (article_id) DO UPDATE SET
			author = excluded.author,
			approve_count = excluded.approve_count`)

	if _, err := exec.ExecContext(ctx, query, meta.ArticleID, meta.Author, meta.ArticleID); err != nil {
		return storageErr("upsert metadata", err)
	}
	return nil
}

// UpsertDetails stores the details and replaces the article's approver set.
func (s *ArticleStore) UpsertDetails(ctx context.Context, details domain.ArticleDetails) error {
	return s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)

		query := exec.Rebind(`
			INSERT INTO article_details (article_id, name, body, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (article_id) DO UPDATE SET
				name = excluded.name,
				body = excluded.body,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at`)

		_, err := exec.ExecContext(ctx, query,
			details.ArticleID,
			details.Name,
			details.Body,
			formatTime(details.CreatedAt),
			formatTime(details.UpdatedAt),
		)
		if err != nil {
			return storageErr("upsert details", err)
		}

		if err := replaceApprovals(ctx, exec, details.ArticleID, details.ApprovedBy); err != nil {
			return err
		}

		return recomputeApproveCount(ctx, exec, details.ArticleID)
	})
}

// AddApproval records reviewer as an approver of articleID and reports
// whether the approval was new.
func (s *ArticleStore) AddApproval(ctx context.Context, articleID, reviewer string) (bool, error) {
	if strings.TrimSpace(reviewer) == "" {
		return false, domain.ErrEmptyUsername
	}

	var added bool

	err := s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)

		var exists bool
		err := sqlx.GetContext(ctx, exec, &exists,
			exec.Rebind(`SELECT EXISTS (SELECT 1 FROM article_details WHERE article_id = ?)`),
			articleID,
		)
		if err != nil {
			return storageErr("check article", err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrArticleNotFound, articleID)
		}

		added, err = insertApproval(ctx, exec, articleID, reviewer)
		if err != nil {
			return err
		}

		return recomputeApproveCount(ctx, exec, articleID)
	})

	return added, err
}

func (s *ArticleStore) GetByID(ctx context.Context, articleID string) (*domain.ArticleDisplayModel, error) {
	exec := GetExecutor(ctx, s.db)

	var row articleRow
	err := sqlx.GetContext(ctx, exec, &row, exec.Rebind(selectDisplay+` WHERE m.article_id = ?`), articleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get article", err)
	}

	approvals, err := loadApprovals(ctx, exec, `WHERE article_id = ?`, articleID)
	if err != nil {
		return nil, err
	}

	model, err := row.toDisplay(approvals[articleID])
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// FetchAll returns every paired article ordered by author, then article id.
// Authors compare case-insensitively so SQLite and PostgreSQL agree.
func (s *ArticleStore) FetchAll(ctx context.Context) ([]domain.ArticleDisplayModel, error) {
	return s.fetch(ctx, ` ORDER BY LOWER(m.author), m.author, m.article_id`, "", nil)
}

// FetchByAuthor returns the author's paired articles ordered by article id.
// The author name matches case-insensitively, like login role detection.
func (s *ArticleStore) FetchByAuthor(ctx context.Context, author string) ([]domain.ArticleDisplayModel, error) {
	return s.fetch(ctx,
		` WHERE LOWER(m.author) = LOWER(?) ORDER BY m.article_id`,
		`WHERE article_id IN (SELECT article_id FROM article_metadata WHERE LOWER(author) = LOWER(?))`,
		[]any{author},
	)
}

func (s *ArticleStore) fetch(ctx context.Context, clause, approvalClause string, args []any) ([]domain.ArticleDisplayModel, error) {
	exec := GetExecutor(ctx, s.db)

	var rows []articleRow
	if err := sqlx.SelectContext(ctx, exec, &rows, exec.Rebind(selectDisplay+clause), args...); err != nil {
		return nil, storageErr("fetch articles", err)
	}

	approvals, err := loadApprovals(ctx, exec, approvalClause, args...)
	if err != nil {
		return nil, err
	}

	result := make([]domain.ArticleDisplayModel, 0, len(rows))
	for _, row := range rows {
		model, err := row.toDisplay(approvals[row.ArticleID])
		if err != nil {
			return nil, err
		}
		result = append(result, model)
	}
	return result, nil
}

func (s *ArticleStore) HasAnyArticles(ctx context.Context) (bool, error) {
	exec := GetExecutor(ctx, s.db)

	var exists bool
	err := sqlx.GetContext(ctx, exec, &exists, `SELECT EXISTS (
		SELECT 1 FROM article_metadata m
		INNER JOIN article_details d ON d.article_id = m.article_id
	)`)
	if err != nil {
		return false, storageErr("check articles", err)
	}
	return exists, nil
}

// ClearAll removes all article data. Session and sync bookkeeping are kept.
func (s *ArticleStore) ClearAll(ctx context.Context) error {
	return s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)
		for _, table := range []string{"article_approvals", "article_details", "article_metadata"} {
			if _, err := exec.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return storageErr("clear "+table, err)
			}
		}
		return nil
	})
}

func (r articleRow) toDisplay(approvers domain.Approvers) (domain.ArticleDisplayModel, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return domain.ArticleDisplayModel{}, storageErr("parse created_at", err)
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return domain.ArticleDisplayModel{}, storageErr("parse updated_at", err)
	}

	return domain.ArticleDisplayModel{
		ArticleID:    r.ArticleID,
		Name:         r.Name,
		Body:         r.Body,
		Author:       r.Author,
		ApproveCount: r.ApproveCount,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		ApprovedBy:   domain.NewApprovers(approvers...),
	}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
