package local

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding"

	"github.com/shpitdev/tsnorm/pkg/pipeline/io/legacy"
)

// MalformedRowError is a CSV record the tokenizer could not split into fields.
// The stream can continue past it.
type MalformedRowError struct {
	Line int
	Err  error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row at line %d: %v", e.Line, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// Reader yields CSV records one at a time from already-decoded text.
type Reader struct {
	cr   *csv.Reader
	line int
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	return &Reader{cr: cr}
}

// Read returns the next record, io.EOF at the end of input, a
// *MalformedRowError for a record that could not be tokenized, or any other
// error from the underlying stream.
func (r *Reader) Read() ([]string, error) {
	rec, err := r.cr.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) && isSyntaxError(pe.Err) {
			r.line = pe.StartLine
			return nil, &MalformedRowError{Line: pe.StartLine, Err: pe.Err}
		}
		return nil, fmt.Errorf("read row: %w", err)
	}
	r.line, _ = r.cr.FieldPos(0)
	return rec, nil
}

// Line is the input line on which the last record returned by Read started.
func (r *Reader) Line() int { return r.line }

func isSyntaxError(err error) bool {
	return errors.Is(err, csv.ErrQuote) || errors.Is(err, csv.ErrBareQuote) || errors.Is(err, csv.ErrTrailingComma)
}

// EncodeError is a row that could not be written in the target encoding.
type EncodeError struct {
	Row   int
	Field int
	Rune  rune
	Err   error
}

func (e *EncodeError) Error() string {
	if e.Field < 0 {
		return fmt.Sprintf("write row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("write row %d: field %d: character %q cannot be encoded: %v", e.Row, e.Field, e.Rune, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Writer writes CSV records encoded in a legacy encoding.
type Writer struct {
	enc  encoding.Encoding
	buf  *bufio.Writer
	ew   io.WriteCloser
	cw   *csv.Writer
	rows int
}

func NewWriter(w io.Writer, enc encoding.Encoding) *Writer {
	buf := bufio.NewWriter(w)
	ew := legacy.NewWriter(buf, enc)
	return &Writer{
		enc: enc,
		buf: buf,
		ew:  ew,
		cw:  csv.NewWriter(ew),
	}
}

// Write encodes one record. The record is pushed through the encoder before
// Write returns so a failure is attributed to the row that caused it.
func (w *Writer) Write(row []string) error {
	w.rows++
	if err := w.cw.Write(row); err != nil {
		return w.fail(row, err)
	}
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return w.fail(row, err)
	}
	return nil
}

// Rows is the number of records passed to Write.
func (w *Writer) Rows() int { return w.rows }

// Flush pushes buffered bytes to the underlying writer.
func (w *Writer) Flush() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// Close flushes the encoder state and all buffered bytes. It does not close
// the underlying writer.
func (w *Writer) Close() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := w.ew.Close(); err != nil {
		return fmt.Errorf("flush encoder: %w", err)
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func (w *Writer) fail(row []string, err error) error {
	for i, f := range row {
		if r, ok := legacy.Unencodable(w.enc, f); ok {
			return &EncodeError{Row: w.rows, Field: i, Rune: r, Err: err}
		}
	}
	return &EncodeError{Row: w.rows, Field: -1, Err: err}
}
