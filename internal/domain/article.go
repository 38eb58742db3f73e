package domain

import (
	"slices"
	"time"
)

// ArticleMetadata is the lightweight listing record of an article.
// ApproveCount mirrors the size of the paired details' approver set.
type ArticleMetadata struct {
	ArticleID    string
	Author       string
	ApproveCount int
}

// ArticleDetails holds the article content and its approver set.
// CreatedAt and UpdatedAt always come from the remote source.
type ArticleDetails struct {
	ArticleID  string
	Name       string
	Body       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedBy Approvers
}

// ArticleDisplayModel is the read projection joining metadata and details.
type ArticleDisplayModel struct {
	ArticleID    string    `json:"articleId"`
	Name         string    `json:"name"`
	Body         string    `json:"article"`
	Author       string    `json:"author"`
	ApproveCount int       `json:"approveCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ApprovedBy   Approvers `json:"approvedBy"`
}

// Article pairs metadata with its details.
type Article struct {
	Metadata ArticleMetadata
	Details  ArticleDetails
}

// NewArticle pairs meta and details and derives ApproveCount from the approver set.
func NewArticle(meta ArticleMetadata, details ArticleDetails) Article {
	details.ArticleID = meta.ArticleID
	details.ApprovedBy = NewApprovers(details.ApprovedBy...)
	meta.ApproveCount = details.ApprovedBy.Len()
	return Article{Metadata: meta, Details: details}
}

func (a Article) Display() ArticleDisplayModel {
	return ArticleDisplayModel{
		ArticleID:    a.Metadata.ArticleID,
		Name:         a.Details.Name,
		Body:         a.Details.Body,
		Author:       a.Metadata.Author,
		ApproveCount: a.Details.ApprovedBy.Len(),
		CreatedAt:    a.Details.CreatedAt,
		UpdatedAt:    a.Details.UpdatedAt,
		ApprovedBy:   slices.Clone(a.Details.ApprovedBy),
	}
}

// Approvers is a set of reviewer names kept sorted and free of duplicates.
// Build it with NewApprovers; the zero value is an empty set.
type Approvers []string

func NewApprovers(names ...string) Approvers {
	set := make(Approvers, 0, len(names))
	set = append(set, names...)
	slices.Sort(set)
	return slices.Compact(set)
}

func (a Approvers) Len() int {
	return len(a)
}

func (a Approvers) Contains(name string) bool {
	_, found := slices.BinarySearch(a, name)
	return found
}

// Union returns a new set holding every name of a and other.
func (a Approvers) Union(other Approvers) Approvers {
	merged := make([]string, 0, len(a)+len(other))
	merged = append(merged, a...)
	merged = append(merged, other...)
	return NewApprovers(merged...)
}
