package wire

import (
	"fmt"
	"time"

	"news_review/internal/domain"
)

func (m ArticleMetadata) ToDomain() domain.ArticleMetadata {
	return domain.ArticleMetadata{
		ArticleID:    m.ArticleID,
		Author:       m.Author,
		ApproveCount: m.ApproveCount,
	}
}

func MetadataList(items []ArticleMetadata) []domain.ArticleMetadata {
	result := make([]domain.ArticleMetadata, 0, len(items))
	for _, item := range items {
		result = append(result, item.ToDomain())
	}
	return result
}

// ToDomain converts the payload, failing with domain.ErrDecoding when a
// timestamp is not valid ISO-8601.
func (d ArticleDetails) ToDomain() (domain.ArticleDetails, error) {
	createdAt, err := parseTimestamp(d.CreatedAt)
	if err != nil {
		return domain.ArticleDetails{}, fmt.Errorf("%w: %s createdAt: %w", domain.ErrDecoding, d.ArticleID, err)
	}
	updatedAt, err := parseTimestamp(d.UpdatedAt)
	if err != nil {
		return domain.ArticleDetails{}, fmt.Errorf("%w: %s updatedAt: %w", domain.ErrDecoding, d.ArticleID, err)
	}

	return domain.ArticleDetails{
		ArticleID:  d.ArticleID,
		Name:       d.Name,
		Body:       d.Article,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		ApprovedBy: domain.NewApprovers(d.ApprovedBy...),
	}, nil
}

func FromDisplay(models []domain.ArticleDisplayModel) []MergedArticle {
	result := make([]MergedArticle, 0, len(models))
	for _, m := range models {
		approvedBy := make([]string, 0, len(m.ApprovedBy))
		approvedBy = append(approvedBy, m.ApprovedBy...)

		result = append(result, MergedArticle{
			ArticleID:    m.ArticleID,
			Name:         m.Name,
			Article:      m.Body,
			Author:       m.Author,
			ApproveCount: m.ApproveCount,
			CreatedAt:    FormatTimestamp(m.CreatedAt),
			UpdatedAt:    FormatTimestamp(m.UpdatedAt),
			ApprovedBy:   approvedBy,
		})
	}
	return result
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
