// Package local reads and writes CSV record streams on the local machine:
// files, stdin and stdout.
package local

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// StdioName is how the standard streams show up in logs.
const StdioName = "-"

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func isStdio(path string) bool {
	p := strings.TrimSpace(path)
	return p == "" || p == StdioName
}

// Open opens path for reading, or returns stdin when path is empty or "-".
func Open(path string) (io.ReadCloser, error) {
	if isStdio(path) {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// Create creates or truncates path, or returns stdout when path is empty or "-".
// Closing the stdout writer is a no-op.
func Create(path string) (io.WriteCloser, error) {
	if isStdio(path) {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

// DisplayName renders path for log messages.
func DisplayName(path string) string {
	if isStdio(path) {
		return StdioName
	}
	return path
}
