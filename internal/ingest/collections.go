package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/metrics"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// SaveCollection upserts the collection and links every part that already
// exists as a media row. Parts are matched by tmdb id inside the insert, so
// parts crawled later attach themselves when their own crawl links the
// collection again.
func (s *Saver) SaveCollection(ctx context.Context, mediaID int64, collection *tmdb.Collection) error {
	if collection == nil {
		return nil
	}

	row := map[string]any{
		"name":          collection.Name,
		"overview":      collection.Overview,
		"poster_path":   collection.PosterPath,
		"backdrop_path": collection.BackdropPath,
	}
	result, err := db.Upsert(ctx, s.q, "collections", row, []string{"name"}, []string{"id"})
	if err != nil {
		return fmt.Errorf("save collection %q: %w", collection.Name, err)
	}
	if result == nil {
		return fmt.Errorf("save collection %q: no id returned", collection.Name)
	}
	collectionID, err := rowID(result)
	if err != nil {
		return fmt.Errorf("save collection %q: %w", collection.Name, err)
	}

	partIDs := make([]int64, len(collection.Parts))
	for i, part := range collection.Parts {
		partIDs[i] = int64(part.ID)
	}

	query := `
		INSERT INTO media_collections (media_id, collection_id)
		SELECT media.id, $1
		FROM media
		WHERE media.tmdb_id = ANY($2::bigint[]) AND media.media_type_id = 1
		ON CONFLICT (media_id, collection_id) DO NOTHING
		RETURNING media_id`
	rows, err := s.q.Query(ctx, query, collectionID, partIDs)
	if err != nil {
		return fmt.Errorf("link collection %q: %w", collection.Name, err)
	}
	linked := 0
	for rows.Next() {
		linked++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("link collection %q: %w", collection.Name, err)
	}

	metrics.ObserveUpsertRows("media_collections", linked)
	if linked > 0 {
		s.logger.Debug("collection linked",
			zap.String("collection", collection.Name),
			zap.Int64("media_id", mediaID),
			zap.Int("linked_parts", linked),
		)
	}
	return nil
}
