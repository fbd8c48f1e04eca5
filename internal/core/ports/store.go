package ports

import (
	"context"
	"strconv"
	"time"
)

// Row is a single result row keyed by column name.
type Row map[string]any

// Store executes parameterized queries against the clinic database. The
// connection is exclusively owned by one session for its lifetime. Writes
// stay pending until Commit; every mutating handler commits exactly once
// after its write succeeds.
type Store interface {
	// QueryOne returns the first row, or nil when the query matches nothing.
	QueryOne(ctx context.Context, query string, args ...any) (Row, error)
	// QueryAll returns all rows, materialized.
	QueryAll(ctx context.Context, query string, args ...any) ([]Row, error)
	// Execute runs a statement that returns no rows.
	Execute(ctx context.Context, query string, args ...any) error
	// Commit makes pending writes durable. With nothing pending it is a no-op.
	Commit(ctx context.Context) error
}

// The accessors below tolerate the scan types the Postgres driver produces
// (int64 for integers, []byte for numerics). A missing or mistyped column
// yields the zero value.

func (r Row) Int(column string) int {
	switch v := r[column].(type) {
	case int64:
		return int(v)
	case int32:
		return int(v)
	case int:
		return v
	case []byte:
		n, _ := strconv.Atoi(string(v))
		return n
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func (r Row) Float(column string) float64 {
	switch v := r[column].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

func (r Row) Time(column string) time.Time {
	if v, ok := r[column].(time.Time); ok {
		return v
	}
	return time.Time{}
}
