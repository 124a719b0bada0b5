// Package ingest normalizes fetched TMDB payloads into the relational
// schema. Each saver writes one table family and is safe to run
// concurrently with the others for the same media entity.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goodwatch/goodwatch-crawler/internal/db"
	"github.com/goodwatch/goodwatch-crawler/internal/metrics"
)

// Saver writes normalized TMDB data. Root entities go through single-row
// upserts; dependent tables go through the bulk path.
type Saver struct {
	q      db.Querier
	runner *db.TxRunner
	logger *zap.Logger
}

// NewSaver builds a Saver on the given pool and transaction runner.
func NewSaver(q db.Querier, runner *db.TxRunner, logger *zap.Logger) *Saver {
	return &Saver{q: q, runner: runner, logger: logger}
}

func (s *Saver) bulk(
	ctx context.Context,
	table string,
	batch db.Batch,
	conflictCols []string,
	returnCols []string,
) (*db.BulkResult, error) {
	result, err := db.BulkUpsert(ctx, s.runner, table, batch, conflictCols, returnCols)
	if err != nil {
		return nil, err
	}
	metrics.ObserveUpsertRows(table, len(result.Inserted))
	return result, nil
}

func column(name string, t db.ColumnType, values []any) db.Column {
	return db.Column{Name: name, Type: t, Values: values}
}

// repeatValue fills a column with the same value for every row, typically
// the media id of dependent tables.
func repeatValue(v any, n int) []any {
	values := make([]any, n)
	for i := range values {
		values[i] = v
	}
	return values
}

// textOrNil maps empty strings to NULL so absent API fields don't collide
// with legitimate empty values in uniqueness columns.
func textOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// rowID extracts the surrogate id from a returned row.
func rowID(row db.Row) (int64, error) {
	switch v := row["id"].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unexpected id type %T", row["id"])
	}
}

// rowInt extracts an integer column from a returned row.
func rowInt(row db.Row, name string) (int64, bool) {
	switch v := row[name].(type) {
	case int64:
		return v, true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
