package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news_review/internal/domain"
)

func TestArticleDetails_ToDomain(t *testing.T) {
	d := ArticleDetails{
		ArticleID:  "ART001",
		Name:       "Perfume",
		Article:    "Perfumes are made from essential oils.",
		CreatedAt:  "2024-12-01T10:30:00Z",
		UpdatedAt:  "2025-06-25T09:15:00Z",
		ApprovedBy: []string{"Mark", "John", "Mark"},
	}

	got, err := d.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, "ART001", got.ArticleID)
	assert.Equal(t, "Perfumes are made from essential oils.", got.Body)
	assert.True(t, time.Date(2024, 12, 1, 10, 30, 0, 0, time.UTC).Equal(got.CreatedAt))
	assert.True(t, time.Date(2025, 6, 25, 9, 15, 0, 0, time.UTC).Equal(got.UpdatedAt))
	assert.Equal(t, domain.Approvers{"John", "Mark"}, got.ApprovedBy)
}

func TestArticleDetails_ToDomain_BadTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		details ArticleDetails
	}{
		{
			name:    "created",
			details: ArticleDetails{ArticleID: "ART001", CreatedAt: "yesterday", UpdatedAt: "2025-06-25T09:15:00Z"},
		},
		{
			name:    "updated",
			details: ArticleDetails{ArticleID: "ART001", CreatedAt: "2025-06-25T09:15:00Z", UpdatedAt: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.details.ToDomain()
			assert.ErrorIs(t, err, domain.ErrDecoding)
		})
	}
}

func TestFromDisplay(t *testing.T) {
	models := []domain.ArticleDisplayModel{{
		ArticleID:    "ART002",
		Name:         "Technology",
		Body:         "Technology continues to evolve.",
		Author:       "Robert",
		ApproveCount: 2,
		CreatedAt:    time.Date(2024, 11, 15, 14, 20, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2025, 6, 20, 11, 30, 0, 0, time.UTC),
		ApprovedBy:   domain.NewApprovers("Sarah", "Priya"),
	}}

	got := FromDisplay(models)
	require.Len(t, got, 1)
	assert.Equal(t, "Technology continues to evolve.", got[0].Article)
	assert.Equal(t, "2024-11-15T14:20:00Z", got[0].CreatedAt)
	assert.Equal(t, "2025-06-20T11:30:00Z", got[0].UpdatedAt)
	assert.Equal(t, []string{"Priya", "Sarah"}, got[0].ApprovedBy)
	assert.Equal(t, 2, got[0].ApproveCount)
}

func TestMetadataList(t *testing.T) {
	got := MetadataList([]ArticleMetadata{
		{ArticleID: "ART001", Author: "Robert", ApproveCount: 5},
		{ArticleID: "ART005", Author: "Alice", ApproveCount: 8},
	})

	assert.Equal(t, []domain.ArticleMetadata{
		{ArticleID: "ART001", Author: "Robert", ApproveCount: 5},
		{ArticleID: "ART005", Author: "Alice", ApproveCount: 8},
	}, got)
}
