package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"news_review/internal/domain"
)

type ArticleStore interface {
	GetByID(ctx context.Context, articleID string) (*domain.ArticleDisplayModel, error)
	UpsertMetadata(ctx context.Context, meta domain.ArticleMetadata) error
	UpsertDetails(ctx context.Context, details domain.ArticleDetails) error
	FetchAll(ctx context.Context) ([]domain.ArticleDisplayModel, error)
}

type SyncStateStore interface {
	Get(ctx context.Context, sourceID string) (*domain.SyncState, error)
	Update(ctx context.Context, state *domain.SyncState) error
}

type Source interface {
	ID() string
	Name() string
	FetchMetadataList(ctx context.Context) ([]domain.ArticleMetadata, error)
	FetchDetails(ctx context.Context, articleID string) (domain.ArticleDetails, error)
	PushMerged(ctx context.Context, articles []domain.ArticleDisplayModel) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishSyncResult(ctx context.Context, result *domain.SyncResult) error
	Close() error
}

// ProgressReporter receives status and progress updates during a pass.
type ProgressReporter interface {
	Begin(runID string)
	Advance(progress float64)
	Succeed()
	Fail(err error)
}
