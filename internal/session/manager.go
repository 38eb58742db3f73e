// Package session persists the logged-in user and derives their role.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"news_review/internal/domain"
)

const (
	keyUsername = "username"
	keyRole     = "userRole"

	authorName = "robert"
)

type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

type ArticleCounter interface {
	HasAnyArticles(ctx context.Context) (bool, error)
}

type LoginResult struct {
	Session domain.Session
	// NeedsSync is set when the local store is still empty.
	NeedsSync bool
}

type Manager struct {
	store    Store
	articles ArticleCounter
	logger   *slog.Logger
}

func NewManager(store Store, articles ArticleCounter, logger *slog.Logger) *Manager {
	return &Manager{
		store:    store,
		articles: articles,
		logger:   logger.With("component", "session"),
	}
}

// RoleFor returns the role a username logs in with.
func RoleFor(username string) domain.Role {
	if strings.EqualFold(username, authorName) {
		return domain.RoleAuthor
	}
	return domain.RoleReviewer
}

func (m *Manager) Login(ctx context.Context, username string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return LoginResult{}, domain.ErrEmptyUsername
	}

	sess := domain.Session{Username: username, Role: RoleFor(username)}

	if err := m.store.Set(ctx, keyUsername, sess.Username); err != nil {
		return LoginResult{}, fmt.Errorf("save username: %w", err)
	}
	if err := m.store.Set(ctx, keyRole, string(sess.Role)); err != nil {
		return LoginResult{}, fmt.Errorf("save role: %w", err)
	}

	hasArticles, err := m.articles.HasAnyArticles(ctx)
	if err != nil {
		return LoginResult{}, fmt.Errorf("check local articles: %w", err)
	}

	m.logger.Info("logged in", "username", sess.Username, "role", sess.Role, "needs_sync", !hasArticles)

	return LoginResult{Session: sess, NeedsSync: !hasArticles}, nil
}

// Current returns the persisted session, or ErrNotLoggedIn.
func (m *Manager) Current(ctx context.Context) (domain.Session, error) {
	username, ok, err := m.store.Get(ctx, keyUsername)
	if err != nil {
		return domain.Session{}, fmt.Errorf("read username: %w", err)
	}
	if !ok || username == "" {
		return domain.Session{}, domain.ErrNotLoggedIn
	}

	role, _, err := m.store.Get(ctx, keyRole)
	if err != nil {
		return domain.Session{}, fmt.Errorf("read role: %w", err)
	}

	return domain.Session{Username: username, Role: domain.ParseRole(role)}, nil
}

func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, keyUsername, keyRole); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.logger.Info("logged out")
	return nil
}

// IsLoggedIn reports whether a session is persisted.
func (m *Manager) IsLoggedIn(ctx context.Context) (bool, error) {
	_, err := m.Current(ctx)
	if errors.Is(err, domain.ErrNotLoggedIn) {
		return false, nil
	}
	return err == nil, err
}
