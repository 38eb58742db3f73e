package domain

// Merge reconciles freshly fetched server state with the locally stored record.
//
// The server is authoritative for content (name, body, timestamps, author), the
// local store only contributes approvals: the merged approver set is the union of
// both sides, so a sync never drops an approval. local may be nil for articles
// that were never stored.
func Merge(meta ArticleMetadata, server ArticleDetails, local *ArticleDisplayModel) Article {
	approvers := NewApprovers(server.ApprovedBy...)
	if local != nil {
		approvers = approvers.Union(local.ApprovedBy)
	}

	details := server
	details.ApprovedBy = approvers

	return NewArticle(meta, details)
}
