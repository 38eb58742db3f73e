package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// SessionStore is a small key/value table for persisted session scalars.
type SessionStore struct {
	db *sqlx.DB
}

func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Get returns the stored value and whether the key was present.
func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind("SELECT value FROM session_state WHERE name = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("get session value", err)
	}
	return value, true, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	query := s.db.Rebind(`
		INSERT INTO session_state (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value`)

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return storageErr("set session value", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM session_state WHERE name = ?"), key); err != nil {
			return storageErr("delete session value", err)
		}
	}
	return nil
}
