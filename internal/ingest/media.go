package ingest

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/goodwatch/goodwatch-crawler/internal/datasource"
	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/metrics"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// SaveMovie upserts the root movie row and returns its surrogate id.
func (s *Saver) SaveMovie(ctx context.Context, details *tmdb.MovieDetails) (int64, error) {
	titles := ExtractTitleVariants(append(
		[]string{details.Title},
		FilterAlternativeTitles(details.AlternativeTitles.Titles)...,
	))

	row := map[string]any{
		"tmdb_id":       details.ID,
		"media_type_id": datasource.MediaTypeMovie,
		"title":         details.Title,
		"synopsis":      details.Overview,
		"tagline":       details.Tagline,
		"release_date":  textOrNil(details.ReleaseDate),
		"release_year":  releaseYear(details.ReleaseDate),
		"popularity":    details.Popularity,
		"status":        details.Status,
		"poster_path":   details.PosterPath,
		"backdrop_path": details.BackdropPath,

		"titles_dashed":          titles.Dashed,
		"titles_underscored":     titles.Underscored,
		"titles_pascal_cased":    titles.PascalCased,
		"original_title":         details.OriginalTitle,
		"original_language_code": details.OriginalLanguage,
		"homepage":               details.Homepage,
		"adult":                  details.Adult,
		"runtime":                details.Runtime,
		"budget":                 details.Budget,
		"revenue":                details.Revenue,

		"imdb_id":      textOrNil(details.ImdbID),
		"wikidata_id":  textOrNil(details.ExternalIDs.WikidataID),
		"facebook_id":  textOrNil(details.ExternalIDs.FacebookID),
		"instagram_id": textOrNil(details.ExternalIDs.InstagramID),
		"twitter_id":   textOrNil(details.ExternalIDs.TwitterID),
	}

	result, err := db.Upsert(ctx, s.q, "movies", row, []string{"tmdb_id", "media_type_id"}, []string{"id"})
	if err != nil {
		return 0, fmt.Errorf("save movie %d: %w", details.ID, err)
	}
	if result == nil {
		return 0, fmt.Errorf("save movie %d: no id returned", details.ID)
	}
	id, err := rowID(result)
	if err != nil {
		return 0, fmt.Errorf("save movie %d: %w", details.ID, err)
	}
	metrics.ObserveUpsertRows("movies", 1)
	s.logger.Debug("movie saved", zap.String("title", details.Title), zap.Int("tmdb_id", details.ID))
	return id, nil
}

// SaveTV upserts the root tv row and returns its surrogate id.
func (s *Saver) SaveTV(ctx context.Context, details *tmdb.TVDetails) (int64, error) {
	titles := ExtractTitleVariants(append(
		[]string{details.Name},
		FilterAlternativeTitles(details.AlternativeTitles.Results)...,
	))

	numberOfSeasons := details.NumberOfSeasons
	if numberOfSeasons == 0 {
		numberOfSeasons = 1
	}
	numberOfEpisodes := details.NumberOfEpisodes
	if numberOfEpisodes == 0 {
		numberOfEpisodes = 1
	}

	row := map[string]any{
		"tmdb_id":       details.ID,
		"media_type_id": datasource.MediaTypeTV,
		"title":         details.Name,
		"synopsis":      details.Overview,
		"tagline":       details.Tagline,
		"release_date":  textOrNil(details.FirstAirDate),
		"release_year":  releaseYear(details.FirstAirDate),
		"popularity":    details.Popularity,
		"status":        details.Status,
		"poster_path":   details.PosterPath,
		"backdrop_path": details.BackdropPath,

		"titles_dashed":          titles.Dashed,
		"titles_underscored":     titles.Underscored,
		"titles_pascal_cased":    titles.PascalCased,
		"original_title":         details.OriginalName,
		"original_language_code": details.OriginalLanguage,
		"homepage":               details.Homepage,
		"adult":                  details.Adult,

		"number_of_seasons":   numberOfSeasons,
		"number_of_episodes":  numberOfEpisodes,
		"episode_runtime":     details.EpisodeRunTime,
		"in_production":       details.InProduction,
		"tv_type":             details.Type,
		"last_air_date":       textOrNil(details.LastAirDate),
		"origin_country_code": details.OriginCountry,

		"imdb_id":      textOrNil(details.ExternalIDs.ImdbID),
		"freebase_mid": textOrNil(details.ExternalIDs.FreebaseMid),
		"freebase_id":  textOrNil(details.ExternalIDs.FreebaseID),
		"tvdb_id":      details.ExternalIDs.TvdbID,
		"tvrage_id":    details.ExternalIDs.TvrageID,
		"wikidata_id":  textOrNil(details.ExternalIDs.WikidataID),
		"facebook_id":  textOrNil(details.ExternalIDs.FacebookID),
		"instagram_id": textOrNil(details.ExternalIDs.InstagramID),
		"twitter_id":   textOrNil(details.ExternalIDs.TwitterID),
	}

	result, err := db.Upsert(ctx, s.q, "tv", row, []string{"tmdb_id", "media_type_id"}, []string{"id"})
	if err != nil {
		return 0, fmt.Errorf("save tv %d: %w", details.ID, err)
	}
	if result == nil {
		return 0, fmt.Errorf("save tv %d: no id returned", details.ID)
	}
	id, err := rowID(result)
	if err != nil {
		return 0, fmt.Errorf("save tv %d: %w", details.ID, err)
	}
	metrics.ObserveUpsertRows("tv", 1)
	s.logger.Debug("tv saved", zap.String("title", details.Name), zap.Int("tmdb_id", details.ID))
	return id, nil
}

// releaseYear pulls the year out of a yyyy-mm-dd release date.
func releaseYear(date string) any {
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return year
}
