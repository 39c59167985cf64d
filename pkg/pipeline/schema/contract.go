package schema

import (
	"strings"
)

// HeaderMode says whether the first record of a stream is a header.
type HeaderMode string

const (
	HeaderModeFirst HeaderMode = "first"
	HeaderModeNone  HeaderMode = "none"
)

func NormalizeHeaderMode(raw string) HeaderMode {
	s := strings.TrimSpace(strings.ToLower(raw))
	switch s {
	case "none", "no", "false", "off":
		return HeaderModeNone
	default:
		return HeaderModeFirst
	}
}

// HasHeader reports whether the first record bypasses normalization.
func (m HeaderMode) HasHeader() bool { return m != HeaderModeNone }
