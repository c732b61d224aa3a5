// Package sqlsrc loads data sources from database/sql queries.
//
// Each result column becomes one source column. The column type is chosen
// from the scanned values: integers stay int64, mixed integers and floats
// become float64, text and blobs become string, booleans bool, and times
// milliseconds since the Unix epoch. NULL becomes NaN in numeric columns
// and "" in text columns.
package sqlsrc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/ggmark"
	"github.com/gogpu/ggmark/source"
)

// ErrMixedTypes is returned when one result column holds values of
// incompatible kinds.
var ErrMixedTypes = errors.New("sqlsrc: column holds mixed value types")

// Queryer is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Query runs query and returns its rows as source columns.
func Query(ctx context.Context, db Queryer, query string, args ...any) (map[string]source.Column, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlsrc: query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlsrc: columns: %w", err)
	}

	values := make([][]any, len(names))
	n := 0
	for rows.Next() {
		row := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlsrc: scan row %d: %w", n, err)
		}
		for i, v := range row {
			values[i] = append(values[i], v)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlsrc: rows: %w", err)
	}

	cols := make(map[string]source.Column, len(names))
	for i, name := range names {
		c, err := column(values[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, name)
		}
		cols[name] = c
	}
	ggmark.Logger().Debug("sqlsrc: query", "rows", n, "columns", len(names))
	return cols, nil
}

// Load runs query and returns a ColumnDataSource holding its rows.
func Load(ctx context.Context, db Queryer, query string, args ...any) (*source.ColumnDataSource, error) {
	cols, err := Query(ctx, db, query, args...)
	if err != nil {
		return nil, err
	}
	return source.NewColumnDataSource(cols)
}

type kind int

const (
	kindNull kind = iota
	kindInt
	kindFloat
	kindString
	kindBool
)

func kindOf(v any) kind {
	switch v.(type) {
	case nil:
		return kindNull
	case int64, int32, int:
		return kindInt
	case float64, float32, time.Time:
		return kindFloat
	case string, []byte:
		return kindString
	case bool:
		return kindBool
	}
	return -1
}

// merge returns the kind holding both a and b.
func merge(a, b kind) (kind, bool) {
	switch {
	case a == b || b == kindNull:
		return a, true
	case a == kindNull:
		return b, true
	case a == kindInt && b == kindFloat, a == kindFloat && b == kindInt:
		return kindFloat, true
	}
	return a, false
}

func column(values []any) (source.Column, error) {
	k := kindNull
	for _, v := range values {
		vk := kindOf(v)
		if vk < 0 {
			return nil, fmt.Errorf("sqlsrc: unsupported value type %T", v)
		}
		var ok bool
		if k, ok = merge(k, vk); !ok {
			return nil, ErrMixedTypes
		}
	}

	switch k {
	case kindInt:
		out := make(source.Series[int64], len(values))
		for i, v := range values {
			if v == nil {
				return floats(values), nil
			}
			out[i] = toInt(v)
		}
		return out, nil
	case kindString:
		out := make(source.Series[string], len(values))
		for i, v := range values {
			switch s := v.(type) {
			case string:
				out[i] = s
			case []byte:
				out[i] = string(s)
			}
		}
		return out, nil
	case kindBool:
		out := make(source.Series[bool], len(values))
		for i, v := range values {
			b, _ := v.(bool)
			out[i] = b
		}
		return out, nil
	default:
		return floats(values), nil
	}
}

func floats(values []any) source.Series[float64] {
	out := make(source.Series[float64], len(values))
	for i, v := range values {
		switch n := v.(type) {
		case nil:
			out[i] = math.NaN()
		case float64:
			out[i] = n
		case float32:
			out[i] = float64(n)
		case time.Time:
			out[i] = float64(n.UnixMilli())
		default:
			out[i] = float64(toInt(v))
		}
	}
	return out
}

func toInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	}
	return 0
}
