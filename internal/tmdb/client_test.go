package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMovieDetailsDecodesAppendedPayload(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 603,
			"title": "The Matrix",
			"release_date": "1999-03-30",
			"popularity": 88.5,
			"belongs_to_collection": {"id": 2344, "name": "The Matrix Collection"},
			"genres": [{"id": 28, "name": "Action"}],
			"keywords": {"keywords": [{"id": 1, "name": "simulation"}]},
			"credits": {
				"cast": [{"id": 6384, "name": "Keanu Reeves", "character": "Neo", "order": 0}],
				"crew": [{"id": 9339, "name": "Lilly Wachowski", "job": "Director", "department": "Directing"}]
			},
			"release_dates": {"results": [{"iso_3166_1": "US", "release_dates": [{"certification": "R", "type": 3}]}]},
			"watch/providers": {"results": {"US": {"flatrate": [{"provider_name": "Netflix"}]}}}
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "secret", BaseURL: server.URL}, zap.NewNop())
	details, err := client.MovieDetails(context.Background(), 603)
	require.NoError(t, err)

	require.Equal(t, "/movie/603", gotPath)
	require.Equal(t, []string{"secret"}, gotQuery["api_key"])
	require.Equal(t, []string{movieAppendResponse}, gotQuery["append_to_response"])

	require.Equal(t, 603, details.ID)
	require.Equal(t, "The Matrix", details.Title)
	require.NotNil(t, details.BelongsToCollection)
	require.Equal(t, 2344, details.BelongsToCollection.ID)
	require.Equal(t, "Action", details.Genres[0].Name)
	require.Equal(t, "Neo", details.Credits.Cast[0].Character)
	require.Equal(t, "Director", details.Credits.Crew[0].Job)
	require.Equal(t, "R", details.ReleaseDates.Results[0].ReleaseDates[0].Certification)
	require.Equal(t, "Netflix", details.WatchProviders.Results["US"].Flatrate[0].ProviderName)
	require.NotEmpty(t, details.Raw)
}

func TestTVDetailsUsesAggregateCredits(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tv/1396", r.URL.Path)
		require.Equal(t, tvAppendResponse, r.URL.Query().Get("append_to_response"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 1396,
			"name": "Breaking Bad",
			"number_of_seasons": 5,
			"aggregate_credits": {
				"cast": [{
					"id": 17419,
					"name": "Bryan Cranston",
					"roles": [{"character": "Walter White", "episode_count": 62}],
					"total_episode_count": 62,
					"order": 0
				}]
			},
			"content_ratings": {"results": [{"iso_3166_1": "US", "rating": "TV-MA"}]},
			"seasons": [{"id": 3572, "season_number": 1, "episode_count": 7}]
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "secret", BaseURL: server.URL}, zap.NewNop())
	details, err := client.TVDetails(context.Background(), 1396)
	require.NoError(t, err)

	require.Equal(t, 5, details.NumberOfSeasons)
	require.Equal(t, "Walter White", details.AggregateCredits.Cast[0].Roles[0].Character)
	require.Equal(t, "TV-MA", details.ContentRatings.Results[0].Rating)
	require.Equal(t, 7, details.Seasons[0].EpisodeCount)
}

func TestThrottlingStatusIsRateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "secret", BaseURL: server.URL}, zap.NewNop())
	_, err := client.MovieDetails(context.Background(), 603)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusForbidden, statusErr.Code)
	require.True(t, statusErr.RateLimited())
}

func TestNotFoundIsNotRateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "secret", BaseURL: server.URL}, zap.NewNop())
	_, err := client.Collection(context.Background(), 2344)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusNotFound, statusErr.Code)
	require.False(t, statusErr.RateLimited())
}
