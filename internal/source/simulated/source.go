// Package simulated is an in-process remote source serving a fixed article
// catalogue with artificial latency. It stands in for the real service in
// demos and tests.
package simulated

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"news_review/internal/connectivity"
	"news_review/internal/domain"
	"news_review/internal/source/wire"
)

const (
	SourceID   = "simulated"
	SourceName = "Simulated article service"
)

//go:embed dataset.json
var defaultDataset []byte

type Dataset struct {
	Metadata []wire.ArticleMetadata `json:"metadata"`
	Details  []wire.ArticleDetails  `json:"details"`
}

// DefaultDataset returns a fresh copy of the built-in 20 article catalogue.
func DefaultDataset() Dataset {
	var ds Dataset
	if err := json.Unmarshal(defaultDataset, &ds); err != nil {
		panic(fmt.Sprintf("simulated: invalid embedded dataset: %v", err))
	}
	return ds
}

type Config struct {
	Latency time.Duration
	// FailArticles lists ids whose details fetch fails with ErrInvalidResponse.
	FailArticles []string
}

type Source struct {
	latency time.Duration
	network connectivity.Provider
	logger  *slog.Logger

	mu       sync.Mutex
	metadata []wire.ArticleMetadata
	details  map[string]wire.ArticleDetails
	failing  map[string]bool
	pushed   [][]domain.ArticleDisplayModel
}

func New(cfg Config, ds Dataset, network connectivity.Provider, logger *slog.Logger) *Source {
	s := &Source{
		latency:  cfg.Latency,
		network:  network,
		logger:   logger.With("source", SourceID),
		metadata: slices.Clone(ds.Metadata),
		details:  make(map[string]wire.ArticleDetails, len(ds.Details)),
		failing:  make(map[string]bool, len(cfg.FailArticles)),
	}
	for _, d := range ds.Details {
		s.details[d.ArticleID] = d
	}
	for _, id := range cfg.FailArticles {
		s.failing[id] = true
	}
	return s
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return SourceName
}

func (s *Source) FetchMetadataList(ctx context.Context) ([]domain.ArticleMetadata, error) {
	if err := s.roundTrip(ctx); err != nil {
		return nil, fmt.Errorf("fetch metadata list: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return wire.MetadataList(s.metadata), nil
}

func (s *Source) FetchDetails(ctx context.Context, articleID string) (domain.ArticleDetails, error) {
	if err := s.roundTrip(ctx); err != nil {
		return domain.ArticleDetails{}, fmt.Errorf("fetch details %s: %w", articleID, err)
	}

	s.mu.Lock()
	d, ok := s.details[articleID]
	failing := s.failing[articleID]
	s.mu.Unlock()

	if !ok || failing {
		return domain.ArticleDetails{}, fmt.Errorf("fetch details %s: %w", articleID, domain.ErrInvalidResponse)
	}
	return d.ToDomain()
}

// PushMerged records the batch and adopts its approver sets as the new
// server state.
func (s *Source) PushMerged(ctx context.Context, articles []domain.ArticleDisplayModel) error {
	if err := s.roundTrip(ctx); err != nil {
		return fmt.Errorf("push merged: %w", err)
	}

	s.mu.Lock()
	s.pushed = append(s.pushed, slices.Clone(articles))
	for _, a := range articles {
		s.setApproversLocked(a.ArticleID, a.ApprovedBy)
	}
	s.mu.Unlock()

	s.logger.Info("merged data received", "articles", len(articles))
	return nil
}

// Pushed returns every batch received by PushMerged, oldest first.
func (s *Source) Pushed() [][]domain.ArticleDisplayModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.pushed)
}

// setApproversLocked adopts a pushed approver set for a known article.
func (s *Source) setApproversLocked(articleID string, approvers domain.Approvers) {
	d, ok := s.details[articleID]
	if !ok {
		return
	}
	d.ApprovedBy = slices.Clone(approvers)
	s.details[articleID] = d

	for i := range s.metadata {
		if s.metadata[i].ArticleID == articleID {
			s.metadata[i].ApproveCount = len(approvers)
		}
	}
}

// SetFailing toggles failure injection for an article's details fetch.
func (s *Source) SetFailing(articleID string, failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[articleID] = failing
}

func (s *Source) roundTrip(ctx context.Context) error {
	if !s.network.IsReachable() {
		return domain.ErrNoConnection
	}
	if s.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
