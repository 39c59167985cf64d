package timestamp_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpitdev/tsnorm/internal/timestamp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want timestamp.PointInTime
	}{
		{name: "morning", in: "11/25/24, 11:28:34 AM GMT+9", want: timestamp.MustNew(2024, 11, 25, 11, 28, 34)},
		{name: "midnight rolls back to zero", in: "11/25/24, 12:00:00 AM GMT+9", want: timestamp.MustNew(2024, 11, 25, 0, 0, 0)},
		{name: "noon stays twelve", in: "11/25/24, 12:00:00 PM GMT+9", want: timestamp.MustNew(2024, 11, 25, 12, 0, 0)},
		{name: "afternoon", in: "1/2/25, 3:04:05 PM GMT-5", want: timestamp.MustNew(2025, 1, 2, 15, 4, 5)},
		{name: "surrounding whitespace", in: "  3/9/23,   7:00:01   AM   UTC  ", want: timestamp.MustNew(2023, 3, 9, 7, 0, 1)},
		{name: "extra trailing tokens", in: "3/9/23, 7:00:01 AM GMT+9 extra", want: timestamp.MustNew(2023, 3, 9, 7, 0, 1)},
		{name: "leap day", in: "2/29/24, 1:00:00 AM GMT+0", want: timestamp.MustNew(2024, 2, 29, 1, 0, 0)},
		{name: "zero padded components", in: "01/05/00, 09:05:07 PM GMT", want: timestamp.MustNew(2000, 1, 5, 21, 5, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timestamp.Parse(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind timestamp.Kind
		err  error
	}{
		{name: "missing comma", in: "11/25/24 11:28:34 AM GMT+9", kind: timestamp.KindShape, err: timestamp.ErrShape},
		{name: "two commas", in: "11/25/24, 11:28:34, AM GMT+9", kind: timestamp.KindShape, err: timestamp.ErrShape},
		{name: "empty", in: "", kind: timestamp.KindShape, err: timestamp.ErrShape},
		{name: "two date components", in: "11/25, 11:28:34 AM GMT+9", kind: timestamp.KindShape, err: timestamp.ErrShape},
		{name: "non numeric month", in: "Nov/25/24, 11:28:34 AM GMT+9", kind: timestamp.KindShape, err: timestamp.ErrShape},
		{name: "non numeric year", in: "11/25/xx, 11:28:34 AM GMT+9", kind: timestamp.KindShape, err: timestamp.ErrShape},
		{name: "zone missing", in: "11/25/24, 11:28:34 AM", kind: timestamp.KindShape, err: timestamp.ErrShape},
		{name: "clock without seconds", in: "11/25/24, 11:28 AM GMT+9", kind: timestamp.KindShape, err: timestamp.ErrShape},
		{name: "negative hour", in: "11/25/24, -1:28:34 AM GMT+9", kind: timestamp.KindShape, err: timestamp.ErrShape},
		{name: "lowercase meridiem", in: "11/25/24, 11:28:34 am GMT+9", kind: timestamp.KindBadMeridiem, err: timestamp.ErrBadMeridiem},
		{name: "unknown meridiem", in: "11/25/24, 11:28:34 XM GMT+9", kind: timestamp.KindBadMeridiem, err: timestamp.ErrBadMeridiem},
		{name: "month thirteen", in: "13/01/24, 01:00:00 AM GMT+0", kind: timestamp.KindInvalidDate, err: timestamp.ErrInvalidDate},
		{name: "february thirtieth", in: "2/30/24, 01:00:00 AM GMT+0", kind: timestamp.KindInvalidDate, err: timestamp.ErrInvalidDate},
		{name: "non leap february 29", in: "2/29/23, 01:00:00 AM GMT+0", kind: timestamp.KindInvalidDate, err: timestamp.ErrInvalidDate},
		{name: "day zero", in: "2/0/23, 01:00:00 AM GMT+0", kind: timestamp.KindInvalidDate, err: timestamp.ErrInvalidDate},
		{name: "three digit year", in: "1/1/100, 01:00:00 AM GMT+0", kind: timestamp.KindInvalidDate, err: timestamp.ErrInvalidDate},
		{name: "negative year", in: "1/1/-1, 01:00:00 AM GMT+0", kind: timestamp.KindInvalidDate, err: timestamp.ErrInvalidDate},
		{name: "minute sixty", in: "1/1/24, 01:60:00 AM GMT+0", kind: timestamp.KindInvalidTime, err: timestamp.ErrInvalidTime},
		{name: "second sixty", in: "1/1/24, 01:00:60 AM GMT+0", kind: timestamp.KindInvalidTime, err: timestamp.ErrInvalidTime},
		{name: "pm hour thirteen", in: "1/1/24, 13:00:00 PM GMT+0", kind: timestamp.KindInvalidTime, err: timestamp.ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := timestamp.Parse(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)

			var pe *timestamp.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.in, pe.Input)
		})
	}
}

func TestMeridiemBeforeDateValidation(t *testing.T) {
	// Both the month and the indicator are wrong; the indicator is checked first.
	_, err := timestamp.Parse("13/01/24, 01:00:00 ZZ GMT+0")
	assert.ErrorIs(t, err, timestamp.ErrBadMeridiem)
}

func TestFormat(t *testing.T) {
	p, err := timestamp.Parse("11/25/24, 11:28:34 AM GMT+9")
	require.NoError(t, err)
	assert.Equal(t, "2024/11/25 11:28:34", p.Format())

	p, err = timestamp.Parse("1/2/03, 4:05:06 PM GMT+9")
	require.NoError(t, err)
	assert.Equal(t, "2003/01/02 16:05:06", p.Format())
}

func TestFormatPreservesOrder(t *testing.T) {
	inputs := []string{
		"12/31/24, 11:59:59 PM GMT+9",
		"1/1/25, 12:00:00 AM GMT+9",
		"9/9/09, 9:09:09 AM GMT+9",
		"10/10/10, 10:10:10 PM GMT+9",
		"1/1/25, 12:00:01 AM GMT+9",
		"2/3/24, 1:00:00 PM GMT+9",
		"2/3/24, 12:59:59 PM GMT+9",
	}
	points := make([]timestamp.PointInTime, 0, len(inputs))
	for _, in := range inputs {
		p, err := timestamp.Parse(in)
		require.NoError(t, err, in)
		points = append(points, p)
	}

	for i := range points {
		for j := range points {
			cmp := points[i].Compare(points[j])
			fi, fj := points[i].Format(), points[j].Format()
			switch {
			case cmp < 0:
				assert.Less(t, fi, fj)
			case cmp > 0:
				assert.Greater(t, fi, fj)
			default:
				assert.Equal(t, fi, fj)
			}
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Before(points[j]) })
	assert.Equal(t, "2009/09/09 09:09:09", points[0].Format())
	assert.Equal(t, "2025/01/01 00:00:01", points[len(points)-1].Format())
}

func TestNewRejectsInvalid(t *testing.T) {
	_, err := timestamp.New(2024, 4, 31, 0, 0, 0)
	assert.ErrorIs(t, err, timestamp.ErrInvalidDate)

	_, err = timestamp.New(2024, 4, 30, 24, 0, 0)
	assert.ErrorIs(t, err, timestamp.ErrInvalidTime)
}
