// Package transform rewrites the timestamp column of one row.
package transform

import (
	"errors"
	"fmt"

	"github.com/shpitdev/tsnorm/internal/timestamp"
)

// ErrMissingField is returned for rows that have no timestamp column.
var ErrMissingField = errors.New("no datetime field found")

// Result is an accepted row with its timestamp column already normalized.
type Result struct {
	Row []string
	At  timestamp.PointInTime
}

// Transformer normalizes the timestamp held in Column.
type Transformer struct {
	Column int
}

// Transform parses row[Column] and returns a copy of row with that field
// replaced by its fixed-width rendering. Other fields are not touched.
func (t Transformer) Transform(row []string) (Result, error) {
	if t.Column < 0 || t.Column >= len(row) {
		return Result{}, fmt.Errorf("column %d of %d: %w", t.Column, len(row), ErrMissingField)
	}

	at, err := timestamp.Parse(row[t.Column])
	if err != nil {
		return Result{}, err
	}

	out := make([]string, len(row))
	copy(out, row)
	out[t.Column] = at.Format()
	return Result{Row: out, At: at}, nil
}
