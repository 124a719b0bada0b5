package ingest

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

func int64Ptr(n int64) *int64 { return &n }
func strPtr(s string) *string { return &s }

func TestSaveGenresUpsertsVocabularyAndLinks(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// Genre vocabulary: "Action" exists, "Drama" is new.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id", "name" FROM genres`).
		WithArgs([]*string{strPtr("Action"), strPtr("Drama")}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Action"))
	mock.ExpectQuery(`INSERT INTO genres`).
		WithArgs([]*string{strPtr("Action"), strPtr("Drama")}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(2), "Drama"))
	mock.ExpectCommit()

	// Links for both genre ids.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "media_id", "genre_id" FROM media_genres`).
		WithArgs([]*int64{int64Ptr(7), int64Ptr(7)}, []*int64{int64Ptr(1), int64Ptr(2)}).
		WillReturnRows(pgxmock.NewRows([]string{"media_id", "genre_id"}))
	mock.ExpectQuery(`INSERT INTO media_genres`).
		WithArgs([]*int64{int64Ptr(7), int64Ptr(7)}, []*int64{int64Ptr(1), int64Ptr(2)}).
		WillReturnRows(pgxmock.NewRows([]string{"media_id", "genre_id"}).
			AddRow(int64(7), int64(1)).
			AddRow(int64(7), int64(2)))
	mock.ExpectCommit()

	saver := NewSaver(mock, db.NewTxRunner(mock, zap.NewNop()), zap.NewNop())
	err = saver.SaveGenres(context.Background(), 7, []tmdb.Genre{
		{ID: 28, Name: "Action"},
		{ID: 18, Name: "Drama"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveGenresSkipsEmptyInput(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	saver := NewSaver(mock, db.NewTxRunner(mock, zap.NewNop()), zap.NewNop())
	require.NoError(t, saver.SaveGenres(context.Background(), 7, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
