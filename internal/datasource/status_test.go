package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestUpdateMediaStatusSuccess(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Unix(1700000000, 0).UTC()

	mock.ExpectQuery(`INSERT INTO data_sources \("name"\)`).
		WithArgs("tmdb_details").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

	mock.ExpectQuery(`(?s)INSERT INTO data_sources_for_media.*"last_successful_attempt_at".*ON CONFLICT \("data_source_id", "media_type_id", "tmdb_id"\)`).
		WithArgs(int64(3), "ok", now, now, 2, 0, 1399).
		WillReturnRows(pgxmock.NewRows([]string{"tmdb_id"}).AddRow(1399))

	store := NewStatusStore(mock)
	err = store.UpdateMediaStatus(context.Background(), "tmdb_details", StatusUpdate{
		TmdbID:      1399,
		MediaTypeID: MediaTypeTV,
		Status:      StatusOK,
		Timestamp:   now,
		Success:     true,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMediaStatusFailureKeepsLastSuccess(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Unix(1700000000, 0).UTC()

	mock.ExpectQuery(`INSERT INTO data_sources \("name"\)`).
		WithArgs("tmdb_details").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

	// Failure rows never carry last_successful_attempt_at, so the previous
	// success timestamp survives the upsert.
	mock.ExpectQuery(`INSERT INTO data_sources_for_media \("data_source_id", "data_status", "last_attempt_at", "media_type_id", "retry_count", "tmdb_id"\)`).
		WithArgs(int64(3), "failed", now, 1, 1, 603).
		WillReturnRows(pgxmock.NewRows([]string{"tmdb_id"}).AddRow(603))

	store := NewStatusStore(mock)
	err = store.UpdateMediaStatus(context.Background(), "tmdb_details", StatusUpdate{
		TmdbID:      603,
		MediaTypeID: MediaTypeMovie,
		Status:      StatusFailed,
		RetryCount:  1,
		Timestamp:   now,
		Success:     false,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSourceIDIsCached(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO data_sources \("name"\)`).
		WithArgs("tmdb_details").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

	store := NewStatusStore(mock)
	first, err := store.sourceID(context.Background(), "tmdb_details")
	require.NoError(t, err)
	second, err := store.sourceID(context.Background(), "tmdb_details")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSourceStatusGlobal(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Unix(1700000000, 0).UTC()

	mock.ExpectQuery(`(?s)INSERT INTO data_sources \("data_status", "last_attempt_at", "name", "retry_count"\).*ON CONFLICT \("name"\)`).
		WithArgs("failed", now, "tmdb_daily", 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(9)))

	store := NewStatusStore(mock)
	err = store.UpdateSourceStatus(context.Background(), "tmdb_daily", StatusUpdate{
		Status:    StatusFailed,
		Timestamp: now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
