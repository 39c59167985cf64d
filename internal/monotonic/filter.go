// Package monotonic keeps a row stream in non-decreasing chronological order.
package monotonic

import (
	"errors"
	"fmt"

	"github.com/shpitdev/tsnorm/internal/timestamp"
)

var ErrOutOfOrder = errors.New("out-of-order record")

// OutOfOrderError is returned when a value precedes the last accepted one.
type OutOfOrderError struct {
	Value timestamp.PointInTime
	Last  timestamp.PointInTime
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("%s: %s < %s", ErrOutOfOrder, e.Value, e.Last)
}

func (e *OutOfOrderError) Unwrap() error { return ErrOutOfOrder }

// Filter holds the last accepted point in time. The zero value is empty and
// accepts whatever it sees first.
type Filter struct {
	last   timestamp.PointInTime
	seeded bool
}

func New() *Filter { return &Filter{} }

// Seeded returns a filter that already holds last as its cursor.
func Seeded(last timestamp.PointInTime) *Filter {
	return &Filter{last: last, seeded: true}
}

// Admit accepts v and advances the cursor when v is not earlier than the
// cursor. A rejected value leaves the cursor where it was.
func (f *Filter) Admit(v timestamp.PointInTime) error {
	if f.seeded && v.Before(f.last) {
		return &OutOfOrderError{Value: v, Last: f.last}
	}
	f.last = v
	f.seeded = true
	return nil
}

// Last returns the cursor and whether one has been set.
func (f *Filter) Last() (timestamp.PointInTime, bool) {
	return f.last, f.seeded
}
