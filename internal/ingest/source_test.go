package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	archivemem "github.com/goodwatch/goodwatch-crawler/internal/archive/memory"
	"github.com/goodwatch/goodwatch-crawler/internal/datasource"
	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/publisher"
	publishmem "github.com/goodwatch/goodwatch-crawler/internal/publisher/memory"
	"github.com/goodwatch/goodwatch-crawler/internal/tmdb"
)

// anyArgs builds n wildcard matchers; pgxmock treats an expectation without
// WithArgs as expecting zero arguments, so arg-carrying queries need these.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func newDetailsSource(t *testing.T, baseURL string, mock pgxmock.PgxPoolIface) (*TMDBDetails, *archivemem.Store, *publishmem.Publisher) {
	t.Helper()

	client := tmdb.NewClient(tmdb.Config{APIKey: "secret", BaseURL: baseURL}, zap.NewNop())
	saver := NewSaver(mock, db.NewTxRunner(mock, zap.NewNop()), zap.NewNop())
	status := datasource.NewStatusStore(mock)
	archiveStore := archivemem.New()
	events := publishmem.New()
	source := NewTMDBDetails(client, saver, status, archiveStore, events, zap.NewNop())
	return source, archiveStore, events
}

func TestProcessMediaMovieSavesArchivesAndPublishes(t *testing.T) {
	t.Parallel()

	// A movie with no sub-resources: only the root row and the status
	// bookkeeping touch the database.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 603, "title": "The Matrix", "release_date": "1999-03-30"}`))
	}))
	defer server.Close()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO movies`).
		WithArgs(anyArgs(26)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery(`INSERT INTO data_sources`).
		WithArgs(anyArgs(1)...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(`INSERT INTO data_sources_for_media`).
		WithArgs(anyArgs(7)...).
		WillReturnRows(pgxmock.NewRows([]string{"tmdb_id"}).AddRow(int64(603)))

	source, archiveStore, events := newDetailsSource(t, server.URL, mock)
	err = source.ProcessMedia(context.Background(), datasource.WorkItem{
		TmdbID:      603,
		MediaTypeID: datasource.MediaTypeMovie,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, 1, archiveStore.Len())

	published := events.Events()
	require.Len(t, published, 1)
	require.Equal(t, "media-updated", published[0].Topic)
	payload, ok := published[0].Payload.(publisher.MediaUpdated)
	require.True(t, ok)
	require.Equal(t, 603, payload.TmdbID)
	require.Equal(t, int64(7), payload.MediaID)
	require.Equal(t, "The Matrix", payload.Title)
	require.Equal(t, "tmdb_details", payload.DataSource)
}

func TestProcessMediaFetchFailurePropagates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	source, archiveStore, events := newDetailsSource(t, server.URL, mock)
	err = source.ProcessMedia(context.Background(), datasource.WorkItem{
		TmdbID:      999999,
		MediaTypeID: datasource.MediaTypeMovie,
	})
	require.Error(t, err)

	// Nothing was written, archived or published.
	require.NoError(t, mock.ExpectationsWereMet())
	require.Equal(t, 0, archiveStore.Len())
	require.Empty(t, events.Events())
}

func TestProcessMediaRejectsUnknownMediaType(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	source, _, _ := newDetailsSource(t, "http://localhost:0", mock)
	err = source.ProcessMedia(context.Background(), datasource.WorkItem{TmdbID: 1, MediaTypeID: 9})
	require.ErrorContains(t, err, "unknown media type")
}
