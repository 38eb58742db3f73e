// Package api exposes the sync status surface over HTTP.
package api

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"news_review/internal/connectivity"
	"news_review/internal/domain"
	"news_review/internal/status"
)

type StatusReader interface {
	Snapshot() status.Snapshot
}

type SyncTrigger interface {
	Trigger() bool
	Running() bool
}

type ArticleReader interface {
	FetchAll(ctx context.Context) ([]domain.ArticleDisplayModel, error)
	FetchByAuthor(ctx context.Context, author string) ([]domain.ArticleDisplayModel, error)
}

type SyncStateReader interface {
	Get(ctx context.Context, sourceID string) (*domain.SyncState, error)
}

type Deps struct {
	SourceID  string
	Status    StatusReader
	Trigger   SyncTrigger
	Articles  ArticleReader
	SyncState SyncStateReader
	Network   connectivity.Provider
	Logger    *slog.Logger
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	h := &handler{deps: deps, logger: deps.Logger.With("component", "api")}

	RegisterHealthRoutes(r, deps.Network)
	RegisterSyncRoutes(r, h)
	RegisterArticleRoutes(r, h)
	return r
}

type handler struct {
	deps   Deps
	logger *slog.Logger
}
