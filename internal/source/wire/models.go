// Package wire holds the JSON payloads exchanged with the remote article
// service and their conversion to domain types.
package wire

// ArticleMetadata is an entry of the metadata list response.
type ArticleMetadata struct {
	ArticleID    string `json:"articleId"`
	Author       string `json:"author"`
	ApproveCount int    `json:"approveCount"`
}

// ArticleDetails is the per-article details response. Timestamps are ISO-8601.
type ArticleDetails struct {
	ArticleID  string   `json:"articleId"`
	Name       string   `json:"name"`
	Article    string   `json:"article"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
	ApprovedBy []string `json:"approvedBy"`
}

// MergedArticle is one element of the merged-state upload.
type MergedArticle struct {
	ArticleID    string   `json:"articleId"`
	Name         string   `json:"name"`
	Article      string   `json:"article"`
	Author       string   `json:"author"`
	ApproveCount int      `json:"approveCount"`
	CreatedAt    string   `json:"createdAt"`
	UpdatedAt    string   `json:"updatedAt"`
	ApprovedBy   []string `json:"approvedBy"`
}
