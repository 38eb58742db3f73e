package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"news_review/internal/domain"
)

type SyncStateStore struct {
	db *sqlx.DB
}

func NewSyncStateStore(db *sqlx.DB) *SyncStateStore {
	return &SyncStateStore{db: db}
}

type syncStateRow struct {
	SourceID     string `db:"source_id"`
	LastSyncedAt string `db:"last_synced_at"`
	LastStatus   string `db:"last_status"`
	LastError    string `db:"last_error"`
	TotalSynced  int64  `db:"total_synced"`
}

func (s *SyncStateStore) Get(ctx context.Context, sourceID string) (*domain.SyncState, error) {
	var row syncStateRow
	query := s.db.Rebind(`
		SELECT source_id, last_synced_at, last_status, last_error, total_synced
		FROM sync_state
		WHERE source_id = ?`)

	err := s.db.GetContext(ctx, &row, query, sourceID)
	if errors.Is(err, sql.ErrNoRows) {
		// Return empty state for new sources
		return &domain.SyncState{SourceID: sourceID, LastStatus: domain.StatusIdle}, nil
	}
	if err != nil {
		return nil, storageErr("get sync state", err)
	}

	syncedAt, err := parseTime(row.LastSyncedAt)
	if err != nil {
		return nil, storageErr("parse last_synced_at", err)
	}

	return &domain.SyncState{
		SourceID:     row.SourceID,
		LastSyncedAt: syncedAt,
		LastStatus:   domain.StatusKind(row.LastStatus),
		LastError:    row.LastError,
		TotalSynced:  row.TotalSynced,
	}, nil
}

func (s *SyncStateStore) Update(ctx context.Context, state *domain.SyncState) error {
	query := s.db.Rebind(`
		INSERT INTO sync_state (source_id, last_synced_at, last_status, last_error, total_synced)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (source_id) DO UPDATE SET
			last_synced_at = excluded.last_synced_at,
			last_status = excluded.last_status,
			last_error = excluded.last_error,
			total_synced = excluded.total_synced`)

	_, err := s.db.ExecContext(ctx, query,
		state.SourceID,
		formatTime(state.LastSyncedAt),
		string(state.LastStatus),
		state.LastError,
		state.TotalSynced,
	)
	if err != nil {
		return storageErr("update sync state", err)
	}
	return nil
}
