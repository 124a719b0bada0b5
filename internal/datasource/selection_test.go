package datasource

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestSelectBatchScansWorkItems(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := Config{Name: "tmdb_details", BatchSize: 20}

	// pgxmock scans values into the pointer-typed WorkItem fields only when
	// the row values are pointers themselves.
	mediaID := int64(42)
	imdbID := "tt0133093"
	releaseYear := 1999
	rows := pgxmock.NewRows([]string{
		"tmdb_id", "media_type_id", "id", "imdb_id", "release_year",
		"titles_dashed", "titles_underscored", "titles_pascal_cased", "number_of_seasons",
	}).
		AddRow(603, 1, &mediaID, &imdbID, &releaseYear, []string{"the-matrix"}, []string{"the_matrix"}, []string{"TheMatrix"}, nil).
		AddRow(1399, 2, nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`(?s)SELECT\s+daily_media\.tmdb_id.*'60 minutes'::interval.*media\.id IS NULL.*popularity DESC.*'1970-01-01'::timestamp.*LIMIT \$2`).
		WithArgs("tmdb_details", 20).
		WillReturnRows(rows)

	items, err := NewSelector(mock).SelectBatch(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, 603, items[0].TmdbID)
	require.Equal(t, MediaTypeMovie, items[0].MediaTypeID)
	require.NotNil(t, items[0].MediaID)
	require.Equal(t, int64(42), *items[0].MediaID)
	require.Equal(t, []string{"the-matrix"}, items[0].TitlesDashed)

	require.Equal(t, 1399, items[1].TmdbID)
	require.Nil(t, items[1].MediaID)
	require.Nil(t, items[1].ImdbID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectBatchFlipsMediaPrecondition(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := Config{Name: "tmdb_providers", BatchSize: 10, UsesExistingMedia: true}

	mock.ExpectQuery(`(?s)media\.id IS NOT NULL.*CASE WHEN media\.id IS NOT NULL THEN 0 ELSE 1 END`).
		WithArgs("tmdb_providers", 10).
		WillReturnRows(pgxmock.NewRows([]string{
			"tmdb_id", "media_type_id", "id", "imdb_id", "release_year",
			"titles_dashed", "titles_underscored", "titles_pascal_cased", "number_of_seasons",
		}))

	items, err := NewSelector(mock).SelectBatch(context.Background(), cfg)
	require.NoError(t, err)
	require.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}
