package transform_test

import (
	"errors"
	"testing"

	"github.com/shpitdev/tsnorm/internal/timestamp"
	"github.com/shpitdev/tsnorm/internal/transform"
)

func TestTransform(t *testing.T) {
	in := []string{"11/25/24, 11:28:34 PM GMT+9", "山田", " spaced , value ", ""}
	got, err := transform.Transformer{}.Transform(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2024/11/25 23:28:34", "山田", " spaced , value ", ""}
	if len(got.Row) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(got.Row))
	}
	for i := range want {
		if got.Row[i] != want[i] {
			t.Fatalf("field %d: got %q want %q", i, got.Row[i], want[i])
		}
	}
	if !got.At.Equal(timestamp.MustNew(2024, 11, 25, 23, 28, 34)) {
		t.Fatalf("unexpected point in time: %s", got.At)
	}
	if in[0] != "11/25/24, 11:28:34 PM GMT+9" {
		t.Fatalf("input row was modified: %q", in[0])
	}
}

func TestTransformOtherColumn(t *testing.T) {
	got, err := transform.Transformer{Column: 1}.Transform([]string{"id-1", "1/2/24, 1:02:03 AM JST"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Row[0] != "id-1" || got.Row[1] != "2024/01/02 01:02:03" {
		t.Fatalf("unexpected row: %#v", got.Row)
	}
}

func TestTransformRejects(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want error
	}{
		{name: "no fields", row: nil, want: transform.ErrMissingField},
		{name: "empty slice", row: []string{}, want: transform.ErrMissingField},
		{name: "bad shape", row: []string{"not a date", "x"}, want: timestamp.ErrShape},
		{name: "bad date", row: []string{"2/30/24, 1:00:00 AM GMT", "x"}, want: timestamp.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transform.Transformer{}.Transform(tt.row)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Transform(%q) err=%v want %v", tt.row, err, tt.want)
			}
		})
	}
}
