package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ColumnType names the Postgres type an array parameter is cast to. Callers
// declare types explicitly per column, so no value sniffing happens and JSON
// columns survive the array-based insert path.
type ColumnType string

const (
	TypeText      ColumnType = "TEXT"
	TypeNumeric   ColumnType = "NUMERIC"
	TypeInteger   ColumnType = "INTEGER"
	TypeBigint    ColumnType = "BIGINT"
	TypeBoolean   ColumnType = "BOOLEAN"
	TypeDate      ColumnType = "DATE"
	TypeTimestamp ColumnType = "TIMESTAMP"
	TypeJSONB     ColumnType = "JSONB"

	// TypeCSV flattens a multi-valued column into one comma-separated TEXT
	// value per row.
	TypeCSV ColumnType = "CSV"
)

// Column is one column of a column-oriented batch. Values holds one entry per
// input row; nil marks a missing value.
type Column struct {
	Name   string
	Type   ColumnType
	Values []any
}

// Batch is a column-oriented set of rows for one table.
type Batch struct {
	Columns []Column
}

// Len returns the number of rows in the batch.
func (b Batch) Len() int {
	if len(b.Columns) == 0 {
		return 0
	}
	return len(b.Columns[0].Values)
}

func (b Batch) column(name string) (Column, bool) {
	for _, c := range b.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// BulkResult reports which rows pre-existed and which were written. All is
// the concatenation callers use to build id lookups for dependent joins.
type BulkResult struct {
	Existing []Row
	Inserted []Row
	All      []Row
}

// BulkUpsert writes many rows of one table in a single transaction:
// a row-locked lookup of rows already present for the batch keys, then a
// set-based insert of the remainder via unnest, with ON CONFLICT DO UPDATE
// on the uniqueness columns. Duplicate keys inside the batch are reduced
// client-side to the most defined row before anything is sent.
func BulkUpsert(
	ctx context.Context,
	runner *TxRunner,
	table string,
	batch Batch,
	conflictCols []string,
	returnCols []string,
) (*BulkResult, error) {
	if batch.Len() == 0 {
		return &BulkResult{}, nil
	}
	if err := checkIdent(table); err != nil {
		return nil, err
	}
	names := make([]string, len(batch.Columns))
	for i, c := range batch.Columns {
		names[i] = c.Name
	}
	if err := checkIdents(names); err != nil {
		return nil, err
	}
	if err := checkIdents(conflictCols); err != nil {
		return nil, err
	}
	if err := checkIdents(returnCols); err != nil {
		return nil, err
	}
	for _, key := range conflictCols {
		if _, ok := batch.column(key); !ok {
			return nil, fmt.Errorf("bulk upsert into %s: conflict column %q missing from batch", table, key)
		}
	}

	deduped := dedupeBatch(batch, conflictCols)

	columnNames := quoteIdents(names)
	conflictNames := quoteIdents(conflictCols)
	returnNames := quoteIdents(returnCols)

	unnestParams := make([]string, len(deduped.Columns))
	for i, c := range deduped.Columns {
		unnestParams[i] = fmt.Sprintf("$%d::%s[]", i+1, sqlType(c.Type))
	}
	keyConditions := make([]string, len(conflictCols))
	for i, key := range conflictCols {
		col, _ := deduped.column(key)
		keyConditions[i] = fmt.Sprintf("%s = ANY($%d::%s[])", quoteIdent(key), i+1, sqlType(col.Type))
	}

	var setClauses []string
	for _, name := range names {
		if contains(conflictCols, name) {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = EXCLUDED.%s", quoteIdent(name), quoteIdent(name)))
	}
	conflictAction := "NOTHING"
	if len(setClauses) > 0 {
		conflictAction = "UPDATE SET " + strings.Join(setClauses, ", ")
	}

	selectQuery := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s ORDER BY %s FOR UPDATE",
		returnNames,
		table,
		strings.Join(keyConditions, " AND "),
		returnNames,
	)
	insertQuery := fmt.Sprintf(
		"INSERT INTO %s (%s) SELECT %s FROM unnest(%s) AS data(%s) "+
			"WHERE (%s) NOT IN (SELECT %s FROM %s) "+
			"ON CONFLICT (%s) DO %s RETURNING %s",
		table,
		columnNames,
		columnNames,
		strings.Join(unnestParams, ", "),
		columnNames,
		conflictNames,
		conflictNames,
		table,
		conflictNames,
		conflictAction,
		returnNames,
	)

	selectArgs := make([]any, len(conflictCols))
	for i, key := range conflictCols {
		col, _ := deduped.column(key)
		encoded, err := encodeColumn(col)
		if err != nil {
			return nil, fmt.Errorf("bulk upsert into %s: %w", table, err)
		}
		selectArgs[i] = encoded
	}
	insertArgs := make([]any, len(deduped.Columns))
	for i, col := range deduped.Columns {
		encoded, err := encodeColumn(col)
		if err != nil {
			return nil, fmt.Errorf("bulk upsert into %s: %w", table, err)
		}
		insertArgs[i] = encoded
	}

	results, err := runner.Run(ctx, []Query{
		{SQL: selectQuery, Args: selectArgs},
		{SQL: insertQuery, Args: insertArgs},
	})
	if err != nil {
		return nil, fmt.Errorf("bulk upsert into %s: %w", table, err)
	}

	result := &BulkResult{
		Existing: results[0],
		Inserted: results[1],
	}
	result.All = append(result.All, result.Existing...)
	result.All = append(result.All, result.Inserted...)
	return result, nil
}

func sqlType(t ColumnType) string {
	if t == TypeCSV {
		return string(TypeText)
	}
	return string(t)
}

// dedupeBatch keeps one row per conflict-key tuple, preferring the row with
// the fewest missing key values. A nil key cell matches any value, so a row
// with (5, nil) and one with (5, "en") count as the same key and the more
// defined one wins. Ties keep the first occurrence.
func dedupeBatch(batch Batch, conflictCols []string) Batch {
	keyCols := make([]Column, len(conflictCols))
	for i, key := range conflictCols {
		keyCols[i], _ = batch.column(key)
	}

	keep := make([]int, 0, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		duplicate := false
		for pos, kept := range keep {
			if !keysMatch(keyCols, i, kept) {
				continue
			}
			if definedKeyValues(keyCols, i) > definedKeyValues(keyCols, kept) {
				keep[pos] = i
			}
			duplicate = true
			break
		}
		if !duplicate {
			keep = append(keep, i)
		}
	}

	out := Batch{Columns: make([]Column, len(batch.Columns))}
	for ci, col := range batch.Columns {
		values := make([]any, len(keep))
		for vi, rowIdx := range keep {
			values[vi] = col.Values[rowIdx]
		}
		out.Columns[ci] = Column{Name: col.Name, Type: col.Type, Values: values}
	}
	return out
}

func keysMatch(keyCols []Column, a, b int) bool {
	for _, col := range keyCols {
		va, vb := col.Values[a], col.Values[b]
		if va == nil || vb == nil {
			continue
		}
		if fmt.Sprint(va) != fmt.Sprint(vb) {
			return false
		}
	}
	return true
}

func definedKeyValues(keyCols []Column, row int) int {
	count := 0
	for _, col := range keyCols {
		if v := col.Values[row]; v != nil && v != "" {
			count++
		}
	}
	return count
}

// encodeColumn converts the generic value slice into a typed, nullable slice
// pgx can encode against the declared array cast.
func encodeColumn(col Column) (any, error) {
	switch col.Type {
	case TypeText, "":
		return encodeEach(col, toStringPtr)
	case TypeNumeric:
		return encodeEach(col, toFloatPtr)
	case TypeInteger, TypeBigint:
		return encodeEach(col, toIntPtr)
	case TypeBoolean:
		return encodeEach(col, toBoolPtr)
	case TypeDate, TypeTimestamp:
		return encodeEach(col, toTimePtr)
	case TypeJSONB:
		return encodeEach(col, toJSONPtr)
	case TypeCSV:
		return encodeEach(col, toCSVPtr)
	default:
		return nil, fmt.Errorf("column %q: unsupported type %q", col.Name, col.Type)
	}
}

func encodeEach[T any](col Column, convert func(any) (*T, error)) ([]*T, error) {
	out := make([]*T, len(col.Values))
	for i, v := range col.Values {
		if v == nil {
			continue
		}
		converted, err := convert(v)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", col.Name, i, err)
		}
		out[i] = converted
	}
	return out, nil
}

func toStringPtr(v any) (*string, error) {
	switch val := v.(type) {
	case string:
		return &val, nil
	case *string:
		return val, nil
	case fmt.Stringer:
		s := val.String()
		return &s, nil
	default:
		s := fmt.Sprint(v)
		return &s, nil
	}
}

func toFloatPtr(v any) (*float64, error) {
	switch val := v.(type) {
	case float64:
		return &val, nil
	case float32:
		f := float64(val)
		return &f, nil
	case int:
		f := float64(val)
		return &f, nil
	case int64:
		f := float64(val)
		return &f, nil
	case *float64:
		return val, nil
	default:
		return nil, fmt.Errorf("cannot encode %T as numeric", v)
	}
}

func toIntPtr(v any) (*int64, error) {
	switch val := v.(type) {
	case int:
		n := int64(val)
		return &n, nil
	case int32:
		n := int64(val)
		return &n, nil
	case int64:
		return &val, nil
	case *int64:
		return val, nil
	default:
		return nil, fmt.Errorf("cannot encode %T as integer", v)
	}
}

func toBoolPtr(v any) (*bool, error) {
	if val, ok := v.(bool); ok {
		return &val, nil
	}
	if val, ok := v.(*bool); ok {
		return val, nil
	}
	return nil, fmt.Errorf("cannot encode %T as boolean", v)
}

func toTimePtr(v any) (*time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return &val, nil
	case *time.Time:
		return val, nil
	case string:
		if val == "" {
			return nil, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return &t, nil
			}
		}
		return nil, fmt.Errorf("cannot parse %q as timestamp", val)
	default:
		return nil, fmt.Errorf("cannot encode %T as timestamp", v)
	}
}

func toJSONPtr(v any) (*string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json value: %w", err)
	}
	s := string(data)
	return &s, nil
}

func toCSVPtr(v any) (*string, error) {
	switch val := v.(type) {
	case []string:
		s := strings.Join(val, ",")
		return &s, nil
	case string:
		return &val, nil
	default:
		return nil, fmt.Errorf("cannot encode %T as csv", v)
	}
}
