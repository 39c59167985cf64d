// Package timestamp parses the "M/D/YY, H:MM:SS AM|PM <zone>" timestamps found in
// exported chat logs and renders them in a sortable fixed-width form.
package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the fixed-width output rendering: zero-padded, 24-hour, big-endian.
const Layout = "2006/01/02 15:04:05"

// Two-digit years are always read as 20YY.
const (
	centuryBase = 2000
	minYear     = centuryBase
	maxYear     = centuryBase + 99
)

// PointInTime is a calendar date and time of day with no zone attached.
// The zero value is not a valid point in time; obtain one from Parse or New.
type PointInTime struct {
	t time.Time
}

// New validates the components and builds a PointInTime.
func New(year, month, day, hour, minute, second int) (PointInTime, error) {
	if err := validateDate(year, month, day); err != nil {
		return PointInTime{}, err
	}
	if err := validateClock(hour, minute, second); err != nil {
		return PointInTime{}, err
	}
	return PointInTime{t: time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)}, nil
}

// MustNew is New for literals in tests and tables; it panics on invalid input.
func MustNew(year, month, day, hour, minute, second int) PointInTime {
	p, err := New(year, month, day, hour, minute, second)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse converts source text such as "11/25/24, 11:28:34 AM GMT+9" into a PointInTime.
// The zone token must be present but is never interpreted.
func Parse(text string) (PointInTime, error) {
	p, err := parse(text)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Input = text
		}
		return PointInTime{}, err
	}
	return p, nil
}

func parse(text string) (PointInTime, error) {
	s := strings.TrimSpace(text)

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return PointInTime{}, newError(KindShape, "expected two parts separated by a comma")
	}
	datePart := strings.TrimSpace(parts[0])
	timePart := strings.TrimSpace(parts[1])

	dateFields := strings.Split(datePart, "/")
	if len(dateFields) != 3 {
		return PointInTime{}, newError(KindShape, "date must be M/D/YY")
	}
	month, err := component(dateFields[0], "month")
	if err != nil {
		return PointInTime{}, err
	}
	day, err := component(dateFields[1], "day")
	if err != nil {
		return PointInTime{}, err
	}
	yy, err := strconv.Atoi(dateFields[2])
	if err != nil {
		return PointInTime{}, newError(KindShape, fmt.Sprintf("year %q is not an integer", dateFields[2]))
	}
	year := centuryBase + yy

	tokens := strings.Fields(timePart)
	if len(tokens) < 3 {
		return PointInTime{}, newError(KindShape, "time must be H:MM:SS AM|PM ZONE")
	}

	clock := strings.Split(tokens[0], ":")
	if len(clock) != 3 {
		return PointInTime{}, newError(KindShape, "time of day must be H:MM:SS")
	}
	hour, err := component(clock[0], "hour")
	if err != nil {
		return PointInTime{}, err
	}
	minute, err := component(clock[1], "minute")
	if err != nil {
		return PointInTime{}, err
	}
	second, err := component(clock[2], "second")
	if err != nil {
		return PointInTime{}, err
	}

	switch tokens[1] {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	default:
		return PointInTime{}, newError(KindBadMeridiem, fmt.Sprintf("got %q", tokens[1]))
	}

	return New(year, month, day, hour, minute, second)
}

// component parses one unsigned numeric field of the date or clock.
func component(raw, name string) (int, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, newError(KindShape, fmt.Sprintf("%s %q is not an integer", name, raw))
	}
	return int(v), nil
}

func validateDate(year, month, day int) error {
	if year < minYear || year > maxYear {
		return newError(KindInvalidDate, fmt.Sprintf("year %d out of range", year))
	}
	if month < 1 || month > 12 {
		return newError(KindInvalidDate, fmt.Sprintf("month %d out of range", month))
	}
	if day < 1 || day > daysIn(year, month) {
		return newError(KindInvalidDate, fmt.Sprintf("day %d out of range for %04d-%02d", day, year, month))
	}
	return nil
}

func validateClock(hour, minute, second int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return newError(KindInvalidTime, fmt.Sprintf("%02d:%02d:%02d out of range", hour, minute, second))
	}
	return nil
}

func daysIn(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Time returns the point in time as a UTC time.Time.
func (p PointInTime) Time() time.Time { return p.t }

// IsZero reports whether p was never set.
func (p PointInTime) IsZero() bool { return p.t.IsZero() }

// Compare returns -1, 0 or +1 as p is before, equal to or after q.
func (p PointInTime) Compare(q PointInTime) int { return p.t.Compare(q.t) }

func (p PointInTime) Before(q PointInTime) bool { return p.t.Before(q.t) }

func (p PointInTime) Equal(q PointInTime) bool { return p.t.Equal(q.t) }

// Format renders p as YYYY/MM/DD HH:MM:SS.
func (p PointInTime) Format() string { return p.t.Format(Layout) }

func (p PointInTime) String() string { return p.Format() }
