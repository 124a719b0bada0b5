package ingest

import (
	"context"
	"fmt"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// SaveRelations bulk upserts the recommendation and similarity edges. Edges
// reference the related entity by tmdb id so they can be stored before the
// related media has been crawled.
func (s *Saver) SaveRelations(ctx context.Context, mediaID int64, recommendations, similar tmdb.RelatedResults) error {
	type edge struct {
		kind  string
		media tmdb.RelatedMedia
	}
	var edges []edge
	for _, media := range recommendations.Results {
		edges = append(edges, edge{"recommendation", media})
	}
	for _, media := range similar.Results {
		edges = append(edges, edge{"similar", media})
	}
	if len(edges) == 0 {
		return nil
	}

	n := len(edges)
	relatedTmdbIDs := make([]any, n)
	relationTypes := make([]any, n)
	popularities := make([]any, n)
	for i, e := range edges {
		relatedTmdbIDs[i] = e.media.ID
		relationTypes[i] = e.kind
		popularities[i] = e.media.Popularity
	}

	batch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, repeatValue(mediaID, n)),
		column("related_tmdb_id", db.TypeBigint, relatedTmdbIDs),
		column("relation_type", db.TypeText, relationTypes),
		column("popularity", db.TypeNumeric, popularities),
	}}
	_, err := s.bulk(ctx, "media_relations", batch,
		[]string{"media_id", "related_tmdb_id", "relation_type"},
		[]string{"media_id", "related_tmdb_id"},
	)
	if err != nil {
		return fmt.Errorf("save relations: %w", err)
	}
	return nil
}
