package db

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Upsert inserts one row into table and updates all non-key columns when the
// conflict columns collide. It returns the requested columns of the resulting
// row, so re-running with identical values yields the same row and id.
func Upsert(
	ctx context.Context,
	q Querier,
	table string,
	row map[string]any,
	conflictCols []string,
	returnCols []string,
) (Row, error) {
	if len(row) == 0 {
		return nil, fmt.Errorf("upsert into %s: no columns", table)
	}
	if err := checkIdent(table); err != nil {
		return nil, err
	}

	// Deterministic column order keeps the statement stable across calls.
	columns := make([]string, 0, len(row))
	for name := range row {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	if err := checkIdents(columns); err != nil {
		return nil, err
	}
	if err := checkIdents(conflictCols); err != nil {
		return nil, err
	}
	if err := checkIdents(returnCols); err != nil {
		return nil, err
	}

	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, name := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[name]
	}

	var setClauses []string
	for _, name := range columns {
		if contains(conflictCols, name) {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = EXCLUDED.%s", quoteIdent(name), quoteIdent(name)))
	}
	conflictAction := "NOTHING"
	if len(setClauses) > 0 {
		conflictAction = "UPDATE SET " + strings.Join(setClauses, ", ")
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO %s RETURNING %s",
		table,
		quoteIdents(columns),
		strings.Join(placeholders, ", "),
		quoteIdents(conflictCols),
		conflictAction,
		quoteIdents(returnCols),
	)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("upsert into %s: %w", table, err)
	}
	result, err := collectRows(rows)
	if err != nil {
		return nil, fmt.Errorf("upsert into %s: %w", table, err)
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result[0], nil
}
