// Package httpapi implements the remote article source over a JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"news_review/internal/connectivity"
	"news_review/internal/domain"
	"news_review/internal/source/wire"
)

const (
	SourceID   = "http"
	SourceName = "Remote article service"
)

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type Source struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	network        connectivity.Provider
	logger         *slog.Logger
}

func New(cfg Config, network connectivity.Provider, logger *slog.Logger) *Source {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		maxAttempts:    maxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		network:        network,
		logger:         logger.With("source", SourceID),
	}
}

func (s *Source) ID() string {
	return SourceID
}

func (s *Source) Name() string {
	return SourceName
}

// FetchMetadataList returns the authoritative metadata list in server order.
func (s *Source) FetchMetadataList(ctx context.Context) ([]domain.ArticleMetadata, error) {
	var resp []wire.ArticleMetadata
	if err := s.do(ctx, http.MethodGet, s.baseURL+"/articles", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch metadata list: %w", err)
	}

	s.logger.Debug("fetched metadata list", "articles", len(resp))

	return wire.MetadataList(resp), nil
}

func (s *Source) FetchDetails(ctx context.Context, articleID string) (domain.ArticleDetails, error) {
	var resp wire.ArticleDetails
	endpoint := s.baseURL + "/articles/" + url.PathEscape(articleID)

	if err := s.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return domain.ArticleDetails{}, fmt.Errorf("fetch details %s: %w", articleID, err)
	}

	if resp.ArticleID == "" {
		resp.ArticleID = articleID
	}
	if resp.ArticleID != articleID {
		return domain.ArticleDetails{}, fmt.Errorf("fetch details %s: %w: got article %s",
			articleID, domain.ErrInvalidResponse, resp.ArticleID)
	}

	return resp.ToDomain()
}

// PushMerged uploads the full merged set.
func (s *Source) PushMerged(ctx context.Context, articles []domain.ArticleDisplayModel) error {
	body, err := json.Marshal(wire.FromDisplay(articles))
	if err != nil {
		return fmt.Errorf("encode merged articles: %w", err)
	}

	if err := s.do(ctx, http.MethodPut, s.baseURL+"/articles/merged", body, nil); err != nil {
		return fmt.Errorf("push merged: %w", err)
	}

	s.logger.Debug("pushed merged articles", "articles", len(articles))
	return nil
}

func (s *Source) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if !s.network.IsReachable() {
			return domain.ErrNoConnection
		}

		err = s.doRequest(ctx, method, endpoint, body, out)
		if err == nil || !isTransient(err) {
			return err
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"method", method,
			"url", endpoint,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) doRequest(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "NewsReview/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return mapError(ctx, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDecoding, err)
	}
	return nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

// statusError is an unexpected HTTP status worth retrying.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.code)
}

// transportError wraps a failed round trip.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return "execute request: " + e.err.Error()
}

func (e *transportError) Unwrap() []error {
	return []error{domain.ErrNoConnection, e.err}
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", domain.ErrInvalidResponse, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return &statusError{code: code}
	default:
		return fmt.Errorf("%w: status %d", domain.ErrInvalidResponse, code)
	}
}

func mapError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &transportError{err: err}
}

func isTransient(err error) bool {
	var se *statusError
	var te *transportError
	return errors.As(err, &se) || errors.As(err, &te)
}
