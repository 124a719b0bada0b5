package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

func TestFlattenReleaseDates(t *testing.T) {
	t.Parallel()

	results := []tmdb.ReleaseDatesResult{
		{
			ISO3166_1: "US",
			ReleaseDates: []tmdb.ReleaseDate{
				{Certification: "R", ISO639_1: "en", Type: 3, ReleaseDate: "1999-03-31", Note: ""},
				{Certification: "R", ISO639_1: "en", Type: 4, ReleaseDate: "1999-09-21", Note: "DVD"},
			},
		},
		{
			ISO3166_1: "DE",
			ReleaseDates: []tmdb.ReleaseDate{
				{Certification: "16", Type: 3, ReleaseDate: "1999-06-17"},
			},
		},
	}

	flattened := FlattenReleaseDates(results)
	require.Len(t, flattened, 3)
	require.Equal(t, Certification{
		Certification: "R",
		CountryCode:   "US",
		LanguageCode:  "en",
		ReleaseType:   "Theatrical",
		ReleaseDate:   "1999-03-31",
	}, flattened[0])
	require.Equal(t, "Digital", flattened[1].ReleaseType)
	require.Equal(t, "DVD", flattened[1].Note)
	require.Equal(t, "16", flattened[2].Certification)
	require.Equal(t, "DE", flattened[2].CountryCode)
}

func TestFlattenContentRatings(t *testing.T) {
	t.Parallel()

	results := []tmdb.ContentRating{
		{ISO3166_1: "US", Rating: "TV-MA"},
		{ISO3166_1: "DE", Rating: ""},
		{ISO3166_1: "GB", Rating: "18"},
	}

	flattened := FlattenContentRatings(results)
	require.Len(t, flattened, 2)
	require.Equal(t, Certification{Certification: "TV-MA", CountryCode: "US"}, flattened[0])
	require.Equal(t, Certification{Certification: "18", CountryCode: "GB"}, flattened[1])
}
