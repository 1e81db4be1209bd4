package store

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one result row, fully read off the wire.
type Record struct {
	columns []string
	values  []any
}

// NewRecord pairs column names with their values.
func NewRecord(columns []string, values []any) Record {
	return Record{columns: columns, values: values}
}

// readRecords drains rows and closes them.
func readRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Record
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, Record{columns: columns, values: values})
	}
	return out, rows.Err()
}

// Value looks up a column by name. Exact matches win over case-insensitive ones.
func (r Record) Value(name string) (any, error) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], nil
		}
	}
	for i, c := range r.columns {
		if strings.EqualFold(c, name) {
			return r.values[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

func (r Record) Int64(name string) (int64, error) {
	v, err := r.Value(name)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, fmt.Errorf("%w: column %q", ErrNullValue, name)
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return n, nil
}

// NullInt64 returns nil when the column holds NULL.
func (r Record) NullInt64(name string) (*int64, error) {
	v, err := r.Value(name)
	if err != nil || v == nil {
		return nil, err
	}
	n, err := toInt64(v)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}
	return &n, nil
}

func (r Record) String(name string) (string, error) {
	v, err := r.Value(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", fmt.Errorf("%w: column %q", ErrNullValue, name)
	}
	s, err := toString(v)
	if err != nil {
		return "", fmt.Errorf("column %q: %w", name, err)
	}
	return s, nil
}

// Int64 converts the value left in an output parameter.
// ok is false when the procedure left it NULL.
func (p *Param) Int64() (n int64, ok bool, err error) {
	if p.result == nil {
		return 0, false, nil
	}
	n, err = toInt64(p.result)
	if err != nil {
		return 0, false, fmt.Errorf("parameter %s: %w", p.Name, err)
	}
	return n, true, nil
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, x)
		}
		return int64(x), nil
	case []byte:
		return parseInt(string(x))
	case string:
		return parseInt(x)
	default:
		return 0, fmt.Errorf("%w: %T as integer", ErrUnsupportedValue, v)
	}
}

func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q as integer", ErrUnsupportedValue, s)
	}
	return n, nil
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	default:
		return "", fmt.Errorf("%w: %T as string", ErrUnsupportedValue, v)
	}
}
