package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"news_review/internal/domain"
)

const (
	progressFetched = 0.1
	progressMerged  = 0.9
)

// SyncService fetches remote articles, merges them with the local store and
// pushes the merged set back. It is not re-entrant: callers run at most one
// Sync at a time.
type SyncService struct {
	source    Source
	articles  ArticleStore
	syncState SyncStateStore
	txManager TransactionManager
	progress  ProgressReporter
	publisher Publisher
	logger    *slog.Logger
}

// NewSyncService wires the engine. publisher may be nil.
func NewSyncService(
	source Source,
	articles ArticleStore,
	syncState SyncStateStore,
	txManager TransactionManager,
	progress ProgressReporter,
	publisher Publisher,
	logger *slog.Logger,
) *SyncService {
	return &SyncService{
		source:    source,
		articles:  articles,
		syncState: syncState,
		txManager: txManager,
		progress:  progress,
		publisher: publisher,
		logger:    logger.With("source", source.ID()),
	}
}

func (s *SyncService) SourceID() string {
	return s.source.ID()
}

// Sync runs one full pass. The returned result is never nil; err is the
// reason the pass failed, if it did.
func (s *SyncService) Sync(ctx context.Context, trigger domain.Trigger) (*domain.SyncResult, error) {
	result := &domain.SyncResult{
		RunID:     uuid.NewString(),
		SourceID:  s.source.ID(),
		Trigger:   trigger,
		Status:    domain.Syncing,
		StartedAt: time.Now(),
	}
	logger := s.logger.With("run_id", result.RunID)

	s.progress.Begin(result.RunID)
	logger.Info("starting sync", "source_name", s.source.Name(), "trigger", trigger)

	err := s.run(ctx, logger, result)
	result.Duration = time.Since(result.StartedAt)

	if err != nil {
		result.Status = domain.Failure(err)
		s.progress.Fail(err)
		logger.Error("sync failed",
			"error", err,
			"merged", result.Merged(),
			"skipped", result.Stats.Skipped,
			"errors", result.Stats.Errors,
			"duration", result.Duration,
		)
	} else {
		result.Status = domain.Success
		result.Progress = 1
		s.progress.Succeed()
		logger.Info("sync completed",
			"fetched", result.Stats.Fetched,
			"inserted", result.Stats.Inserted,
			"updated", result.Stats.Updated,
			"skipped", result.Stats.Skipped,
			"errors", result.Stats.Errors,
			"pushed", result.Stats.Pushed,
			"duration", result.Duration,
		)
	}

	// Bookkeeping still happens when the pass was cancelled.
	bg := context.WithoutCancel(ctx)
	s.recordState(bg, logger, result)
	s.publish(bg, logger, result)

	return result, err
}

func (s *SyncService) run(ctx context.Context, logger *slog.Logger, result *domain.SyncResult) error {
	metas, err := s.source.FetchMetadataList(ctx)
	if err != nil {
		return err
	}

	result.Stats.Fetched = len(metas)
	s.advance(result, progressFetched)
	logger.Info("fetched metadata list", "count", len(metas))

	n := len(metas)
	for k, meta := range metas {
		if err := s.mergeArticle(ctx, logger, meta, &result.Stats); err != nil {
			return err
		}
		s.advance(result, progressFetched+float64(k+1)/float64(n)*(progressMerged-progressFetched))
	}

	merged, err := s.articles.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("read merged articles: %w", err)
	}

	if err := s.source.PushMerged(ctx, merged); err != nil {
		return err
	}
	result.Stats.Pushed = len(merged)

	return nil
}

// mergeArticle syncs one article. Per-article failures are logged and
// counted; only cancellation of ctx is returned.
func (s *SyncService) mergeArticle(ctx context.Context, logger *slog.Logger, meta domain.ArticleMetadata, stats *domain.SyncStats) error {
	logger = logger.With("article_id", meta.ArticleID)

	details, err := s.source.FetchDetails(ctx, meta.ArticleID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("fetch details %s: %w", meta.ArticleID, ctxErr)
		}
		stats.Skipped++
		logger.Warn("skipping article, details unavailable", "error", err)
		return nil
	}

	local, err := s.articles.GetByID(ctx, meta.ArticleID)
	if err != nil {
		stats.Errors++
		logger.Warn("skipping article, local record unreadable", "error", err)
		return nil
	}

	article := domain.Merge(meta, details, local)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.articles.UpsertMetadata(txCtx, article.Metadata); err != nil {
			return fmt.Errorf("upsert metadata: %w", err)
		}
		if err := s.articles.UpsertDetails(txCtx, article.Details); err != nil {
			return fmt.Errorf("upsert details: %w", err)
		}
		return nil
	})
	if err != nil {
		stats.Errors++
		logger.Warn("failed to save merged article", "error", err)
		return nil
	}

	if local == nil {
		stats.Inserted++
	} else {
		stats.Updated++
	}

	logger.Debug("merged article", "approve_count", article.Metadata.ApproveCount)
	return nil
}

func (s *SyncService) advance(result *domain.SyncResult, p float64) {
	if p > result.Progress {
		result.Progress = p
	}
	s.progress.Advance(p)
}

func (s *SyncService) recordState(ctx context.Context, logger *slog.Logger, result *domain.SyncResult) {
	state, err := s.syncState.Get(ctx, result.SourceID)
	if err != nil {
		logger.Warn("failed to load sync state", "error", err)
		return
	}

	state.SourceID = result.SourceID
	state.LastStatus = result.Status.Kind
	state.LastError = result.Status.Reason
	state.TotalSynced += int64(result.Merged())
	if result.Status.Kind == domain.StatusSuccess {
		state.LastSyncedAt = result.StartedAt.Add(result.Duration)
	}

	if err := s.syncState.Update(ctx, state); err != nil {
		logger.Warn("failed to update sync state", "error", err)
	}
}

func (s *SyncService) publish(ctx context.Context, logger *slog.Logger, result *domain.SyncResult) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSyncResult(ctx, result); err != nil {
		logger.Warn("failed to publish sync result", "error", err)
	}
}
