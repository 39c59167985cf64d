package schema_test

import (
	"testing"

	"github.com/shpitdev/tsnorm/pkg/pipeline/schema"
)

func TestNormalizeHeaderMode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want schema.HeaderMode
	}{
		{name: "first default", in: "", want: schema.HeaderModeFirst},
		{name: "first explicit", in: "first", want: schema.HeaderModeFirst},
		{name: "none", in: "none", want: schema.HeaderModeNone},
		{name: "none case-insensitive", in: " None ", want: schema.HeaderModeNone},
		{name: "false", in: "false", want: schema.HeaderModeNone},
		{name: "unknown falls back", in: "sometimes", want: schema.HeaderModeFirst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schema.NormalizeHeaderMode(tt.in); got != tt.want {
				t.Fatalf("NormalizeHeaderMode(%q)=%q want=%q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasHeader(t *testing.T) {
	if !schema.HeaderModeFirst.HasHeader() {
		t.Fatalf("first mode must have a header")
	}
	if schema.HeaderModeNone.HasHeader() {
		t.Fatalf("none mode must not have a header")
	}
	if !schema.HeaderMode("").HasHeader() {
		t.Fatalf("zero value must default to a header")
	}
}
