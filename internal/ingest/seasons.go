package ingest

import (
	"context"
	"fmt"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// SaveSeasons bulk upserts the season listing of one tv show.
func (s *Saver) SaveSeasons(ctx context.Context, mediaID int64, seasons []tmdb.Season) error {
	if len(seasons) == 0 {
		return nil
	}

	n := len(seasons)
	tmdbIDs := make([]any, n)
	seasonNumbers := make([]any, n)
	names := make([]any, n)
	overviews := make([]any, n)
	airDates := make([]any, n)
	episodeCounts := make([]any, n)
	posterPaths := make([]any, n)
	for i, season := range seasons {
		tmdbIDs[i] = season.ID
		seasonNumbers[i] = season.SeasonNumber
		names[i] = season.Name
		overviews[i] = textOrNil(season.Overview)
		airDates[i] = textOrNil(season.AirDate)
		episodeCounts[i] = season.EpisodeCount
		posterPaths[i] = textOrNil(season.PosterPath)
	}

	batch := db.Batch{Columns: []db.Column{
		column("media_id", db.TypeBigint, repeatValue(mediaID, n)),
		column("tmdb_id", db.TypeBigint, tmdbIDs),
		column("season_number", db.TypeInteger, seasonNumbers),
		column("name", db.TypeText, names),
		column("overview", db.TypeText, overviews),
		column("air_date", db.TypeDate, airDates),
		column("episode_count", db.TypeInteger, episodeCounts),
		column("poster_path", db.TypeText, posterPaths),
	}}
	_, err := s.bulk(ctx, "tv_seasons", batch,
		[]string{"media_id", "season_number"},
		[]string{"media_id", "season_number"},
	)
	if err != nil {
		return fmt.Errorf("save seasons: %w", err)
	}
	return nil
}
