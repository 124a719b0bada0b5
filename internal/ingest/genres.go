package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// SaveGenres upserts the genre vocabulary and the media-genre links.
func (s *Saver) SaveGenres(ctx context.Context, mediaID int64, genres []tmdb.Genre) error {
	if len(genres) == 0 {
		return nil
	}

	names := make([]any, len(genres))
	for i, genre := range genres {
		names[i] = genre.Name
	}
	genreBatch := db.Batch{Columns: []db.Column{
		column("name", db.TypeText, names),
	}}
	genreResult, err := s.bulk(ctx, "genres", genreBatch, []string{"name"}, []string{"id", "name"})
	if err != nil {
		return fmt.Errorf("save genres: %w", err)
	}
	for _, row := range genreResult.Inserted {
		s.logger.Info("new genre added", zap.Any("name", row["name"]))
	}

	genreIDs := make([]any, 0, len(genreResult.All))
	for _, row := range genreResult.All {
		id, err := rowID(row)
		if err != nil {
			return fmt.Errorf("save genres: %w", err)
		}
		genreIDs = append(genreIDs, id)
	}
	if len(genreIDs) == 0 {
		return nil
	}

	linkBatch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, repeatValue(mediaID, len(genreIDs))),
		column("genre_id", db.TypeBigint, genreIDs),
	}}
	_, err = s.bulk(ctx, "media_genres", linkBatch,
		[]string{"media_id", "genre_id"},
		[]string{"media_id", "genre_id"},
	)
	if err != nil {
		return fmt.Errorf("link genres: %w", err)
	}
	return nil
}
