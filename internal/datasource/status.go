package datasource

import (
	"context"
	"fmt"
	"sync"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
)

// StatusStore persists attempt outcomes. Media-scoped sources get one row
// per (tmdb_id, media_type_id, data_source_id) in data_sources_for_media;
// global sources update their own row in data_sources. Both paths are
// upserts, so recording a status for an unseen entity is safe.
type StatusStore struct {
	q db.Querier

	mu        sync.Mutex
	sourceIDs map[string]int64
}

// NewStatusStore builds a StatusStore on the given pool.
func NewStatusStore(q db.Querier) *StatusStore {
	return &StatusStore{
		q:         q,
		sourceIDs: make(map[string]int64),
	}
}

// sourceID resolves and caches the surrogate id of a data source by name.
func (s *StatusStore) sourceID(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	id, ok := s.sourceIDs[name]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	row, err := db.Upsert(ctx, s.q, "data_sources", map[string]any{"name": name}, []string{"name"}, []string{"id"})
	if err != nil {
		return 0, fmt.Errorf("resolve data source %q: %w", name, err)
	}
	if row == nil {
		if err := s.q.QueryRow(ctx, `SELECT id FROM data_sources WHERE name = $1`, name).Scan(&id); err != nil {
			return 0, fmt.Errorf("resolve data source %q: %w", name, err)
		}
	} else {
		switch v := row["id"].(type) {
		case int64:
			id = v
		case int32:
			id = int64(v)
		default:
			return 0, fmt.Errorf("resolve data source %q: unexpected id type %T", name, row["id"])
		}
	}

	s.mu.Lock()
	s.sourceIDs[name] = id
	s.mu.Unlock()
	return id, nil
}

// UpdateMediaStatus upserts the status row for one media entity. A failed
// attempt leaves last_successful_attempt_at untouched.
func (s *StatusStore) UpdateMediaStatus(ctx context.Context, sourceName string, update StatusUpdate) error {
	sourceID, err := s.sourceID(ctx, sourceName)
	if err != nil {
		return err
	}

	row := map[string]any{
		"tmdb_id":         update.TmdbID,
		"media_type_id":   update.MediaTypeID,
		"data_source_id":  sourceID,
		"data_status":     string(update.Status),
		"retry_count":     update.RetryCount,
		"last_attempt_at": update.Timestamp,
	}
	if update.Success {
		row["last_successful_attempt_at"] = update.Timestamp
	}

	_, err = db.Upsert(ctx, s.q, "data_sources_for_media", row,
		[]string{"tmdb_id", "media_type_id", "data_source_id"},
		[]string{"tmdb_id"},
	)
	if err != nil {
		return fmt.Errorf("update status for %s: %w", sourceName, err)
	}
	return nil
}

// UpdateSourceStatus records the outcome of a global (non-media) source run.
func (s *StatusStore) UpdateSourceStatus(ctx context.Context, sourceName string, update StatusUpdate) error {
	row := map[string]any{
		"name":            sourceName,
		"data_status":     string(update.Status),
		"retry_count":     update.RetryCount,
		"last_attempt_at": update.Timestamp,
	}
	if update.Success {
		row["last_successful_attempt_at"] = update.Timestamp
	}

	_, err := db.Upsert(ctx, s.q, "data_sources", row, []string{"name"}, []string{"id"})
	if err != nil {
		return fmt.Errorf("update status for %s: %w", sourceName, err)
	}
	return nil
}
