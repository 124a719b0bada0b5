package ingest

import (
	"context"
	"fmt"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// SaveKeywords upserts the keyword vocabulary and the media-keyword links.
func (s *Saver) SaveKeywords(ctx context.Context, mediaID int64, keywords []tmdb.Keyword) error {
	if len(keywords) == 0 {
		return nil
	}

	tmdbIDs := make([]any, len(keywords))
	names := make([]any, len(keywords))
	for i, keyword := range keywords {
		tmdbIDs[i] = keyword.ID
		names[i] = keyword.Name
	}
	keywordBatch := db.Batch{Columns: []db.Column{
		column("tmdb_id", db.TypeBigint, tmdbIDs),
		column("name", db.TypeText, names),
	}}
	keywordResult, err := s.bulk(ctx, "keywords", keywordBatch, []string{"tmdb_id"}, []string{"id"})
	if err != nil {
		return fmt.Errorf("save keywords: %w", err)
	}

	keywordIDs := make([]any, 0, len(keywordResult.All))
	for _, row := range keywordResult.All {
		id, err := rowID(row)
		if err != nil {
			return fmt.Errorf("save keywords: %w", err)
		}
		keywordIDs = append(keywordIDs, id)
	}
	if len(keywordIDs) == 0 {
		return nil
	}

	linkBatch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, repeatValue(mediaID, len(keywordIDs))),
		column("keyword_id", db.TypeBigint, keywordIDs),
	}}
	_, err = s.bulk(ctx, "media_keywords", linkBatch,
		[]string{"media_id", "keyword_id"},
		[]string{"media_id", "keyword_id"},
	)
	if err != nil {
		return fmt.Errorf("link keywords: %w", err)
	}
	return nil
}
