package db

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func TestDedupeBatchKeepsMostDefinedRow(t *testing.T) {
	t.Parallel()

	// A nil key cell counts as the same key; the non-nil row wins.
	batch := Batch{Columns: []Column{
		{Name: "name", Type: TypeText, Values: []any{nil, "Netflix", "Hulu"}},
		{Name: "country_code", Type: TypeText, Values: []any{"US", "US", "JP"}},
	}}
	deduped := dedupeBatch(batch, []string{"name", "country_code"})
	require.Equal(t, 2, deduped.Len())
	require.Equal(t, []any{"Netflix", "Hulu"}, deduped.Columns[0].Values)

	batch = Batch{Columns: []Column{
		{Name: "tmdb_id", Type: TypeInteger, Values: []any{500, 500, 287}},
		{Name: "name", Type: TypeText, Values: []any{"Tom Cruise", "Tom Cruise", "Brad Pitt"}},
	}}
	deduped = dedupeBatch(batch, []string{"tmdb_id"})
	require.Equal(t, 2, deduped.Len())
	require.Equal(t, []any{500, 287}, deduped.Columns[0].Values)
}

func TestDedupeBatchPrefersDefinedKeyValues(t *testing.T) {
	t.Parallel()

	batch := Batch{Columns: []Column{
		{Name: "title", Type: TypeText, Values: []any{"Heat", "Heat"}},
		{Name: "language_code", Type: TypeText, Values: []any{nil, "en"}},
		{Name: "note", Type: TypeText, Values: []any{"first", "second"}},
	}}

	deduped := dedupeBatch(batch, []string{"title", "language_code"})
	require.Equal(t, 1, deduped.Len())
	require.Equal(t, []any{"en"}, deduped.Columns[1].Values)
	require.Equal(t, []any{"second"}, deduped.Columns[2].Values)
}

func TestBulkUpsertDedupesAndSplitsExistingFromInserted(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id", "name" FROM genres WHERE "name" = ANY\(\$1::TEXT\[\]\) ORDER BY "id", "name" FOR UPDATE`).
		WithArgs([]*string{strPtr("Action"), strPtr("Drama")}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Action"))
	mock.ExpectQuery(`INSERT INTO genres \("name"\) SELECT "name" FROM unnest\(\$1::TEXT\[\]\) AS data\("name"\)`).
		WithArgs([]*string{strPtr("Action"), strPtr("Drama")}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(2), "Drama"))
	mock.ExpectCommit()

	runner := NewTxRunner(mock, zap.NewNop())

	// "Action" appears twice in the input; only one copy is sent.
	batch := Batch{Columns: []Column{
		{Name: "name", Type: TypeText, Values: []any{"Action", "Drama", "Action"}},
	}}
	result, err := BulkUpsert(context.Background(), runner, "genres", batch, []string{"name"}, []string{"id", "name"})
	require.NoError(t, err)
	require.Len(t, result.Existing, 1)
	require.Len(t, result.Inserted, 1)
	require.Len(t, result.All, 2)
	require.Equal(t, "Action", result.Existing[0]["name"])
	require.Equal(t, "Drama", result.Inserted[0]["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsertEmptyBatch(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	runner := NewTxRunner(mock, zap.NewNop())
	result, err := BulkUpsert(context.Background(), runner, "genres", Batch{}, []string{"name"}, []string{"id"})
	require.NoError(t, err)
	require.Empty(t, result.All)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsertRequiresConflictColumnsInBatch(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	runner := NewTxRunner(mock, zap.NewNop())
	batch := Batch{Columns: []Column{{Name: "title", Type: TypeText, Values: []any{"Heat"}}}}
	_, err = BulkUpsert(context.Background(), runner, "media_alternative_titles", batch, []string{"media_id"}, []string{"media_id"})
	require.Error(t, err)
	require.ErrorContains(t, err, "conflict column")
}

func TestEncodeColumnTypes(t *testing.T) {
	t.Parallel()

	encoded, err := encodeColumn(Column{Name: "popularity", Type: TypeNumeric, Values: []any{12.5, nil, 3}})
	require.NoError(t, err)
	floats, ok := encoded.([]*float64)
	require.True(t, ok)
	require.Equal(t, 12.5, *floats[0])
	require.Nil(t, floats[1])
	require.Equal(t, 3.0, *floats[2])

	encoded, err = encodeColumn(Column{Name: "release_date", Type: TypeDate, Values: []any{"2019-07-12", nil}})
	require.NoError(t, err)
	times, ok := encoded.([]*time.Time)
	require.True(t, ok)
	require.Equal(t, 2019, times[0].Year())
	require.Nil(t, times[1])

	encoded, err = encodeColumn(Column{Name: "payload", Type: TypeJSONB, Values: []any{map[string]any{"a": 1}}})
	require.NoError(t, err)
	jsons, ok := encoded.([]*string)
	require.True(t, ok)
	require.JSONEq(t, `{"a":1}`, *jsons[0])

	encoded, err = encodeColumn(Column{Name: "tags", Type: TypeCSV, Values: []any{[]string{"a", "b"}}})
	require.NoError(t, err)
	csvs, ok := encoded.([]*string)
	require.True(t, ok)
	require.Equal(t, "a,b", *csvs[0])

	_, err = encodeColumn(Column{Name: "bad", Type: TypeBoolean, Values: []any{"yes"}})
	require.Error(t, err)
}
