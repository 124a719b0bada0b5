package datasource

import (
	"context"
	"fmt"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
)

// FreshnessWindow is the minimum elapsed time since the last successful
// attempt before a media entity becomes eligible again.
const FreshnessWindow = "60 minutes"

// Selector fetches the next batch of stale work items for a media-scoped
// data source.
type Selector struct {
	q db.Querier
}

// NewSelector builds a Selector on the given pool.
func NewSelector(q db.Querier) *Selector {
	return &Selector{q: q}
}

// BatchSelector is the scheduler-facing interface.
type BatchSelector interface {
	SelectBatch(ctx context.Context, cfg Config) ([]WorkItem, error)
}

// SelectBatch returns up to cfg.BatchSize work items. Eligible items have
// never succeeded for this source or succeeded longer than the freshness
// window ago, and are not marked ignore. Items satisfying the
// existing/missing-media precondition come first, then popularity descending,
// then oldest success, then oldest attempt (never attempted counts as epoch).
func (s *Selector) SelectBatch(ctx context.Context, cfg Config) ([]WorkItem, error) {
	mediaPresence := "NULL"
	if cfg.UsesExistingMedia {
		mediaPresence = "NOT NULL"
	}

	query := fmt.Sprintf(`
		SELECT
			daily_media.tmdb_id,
			daily_media.media_type_id,
			media.id,
			media.imdb_id,
			media.release_year,
			media.titles_dashed,
			media.titles_underscored,
			media.titles_pascal_cased,
			tv.number_of_seasons
		FROM daily_media
		LEFT JOIN media ON media.tmdb_id = daily_media.tmdb_id
		LEFT JOIN tv ON tv.id = media.id
		LEFT JOIN data_sources_for_media
			ON data_sources_for_media.tmdb_id = media.tmdb_id
			AND data_sources_for_media.media_type_id = media.media_type_id
			AND data_sources_for_media.data_source_id = (SELECT id FROM data_sources WHERE name = $1)
		WHERE (
			data_sources_for_media.last_successful_attempt_at IS NULL
			OR now() - data_sources_for_media.last_successful_attempt_at >= '%s'::interval
		) AND (
			media.id IS %s
			OR data_sources_for_media.data_status IS NULL
			OR data_sources_for_media.data_status NOT IN ('ignore')
		)
		ORDER BY
			CASE WHEN media.id IS %s THEN 0 ELSE 1 END,
			daily_media.popularity DESC,
			COALESCE(data_sources_for_media.last_successful_attempt_at, '1970-01-01'::timestamp) ASC,
			COALESCE(data_sources_for_media.last_attempt_at, '1970-01-01'::timestamp) ASC
		LIMIT $2`,
		FreshnessWindow, mediaPresence, mediaPresence,
	)

	rows, err := s.q.Query(ctx, query, cfg.Name, cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("select batch for %s: %w", cfg.Name, err)
	}
	defer rows.Close()

	var items []WorkItem
	for rows.Next() {
		var item WorkItem
		err := rows.Scan(
			&item.TmdbID,
			&item.MediaTypeID,
			&item.MediaID,
			&item.ImdbID,
			&item.ReleaseYear,
			&item.TitlesDashed,
			&item.TitlesUnderscored,
			&item.TitlesPascalCased,
			&item.NumberOfSeasons,
		)
		if err != nil {
			return nil, fmt.Errorf("scan work item for %s: %w", cfg.Name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select batch for %s: %w", cfg.Name, err)
	}
	return items, nil
}
