// Package legacy bridges byte streams in non-Unicode text encodings and the
// UTF-8 text the rest of the pipeline works with.
package legacy

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultName is used when no encoding is configured.
const DefaultName = "shift_jis"

// Lookup resolves a WHATWG encoding label such as "shift_jis", "sjis",
// "euc-jp" or "windows-1252". An empty name selects Shift_JIS.
func Lookup(name string) (encoding.Encoding, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" {
		return japanese.ShiftJIS, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Name returns the canonical label for enc, or "unknown".
func Name(enc encoding.Encoding) string {
	n, err := htmlindex.Name(enc)
	if err != nil {
		return "unknown"
	}
	return n
}

// NewReader decodes r from enc into UTF-8. A leading UTF-8 or UTF-16 byte
// order mark overrides enc and is dropped. Malformed input decodes to U+FFFD.
func NewReader(r io.Reader, enc encoding.Encoding) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder()))
}

// NewWriter encodes UTF-8 written to it into enc before passing it on to w.
// Characters enc cannot represent fail the write; nothing is substituted.
// Close flushes any buffered state but does not close w.
func NewWriter(w io.Writer, enc encoding.Encoding) io.WriteCloser {
	return transform.NewWriter(w, enc.NewEncoder())
}

// Unencodable returns the first rune in s that enc cannot represent.
func Unencodable(enc encoding.Encoding, s string) (rune, bool) {
	e := enc.NewEncoder()
	for _, r := range s {
		if _, err := e.String(string(r)); err != nil {
			return r, true
		}
		e.Reset()
	}
	return 0, false
}

// CountingReader tracks how many bytes have been pulled through it.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}
