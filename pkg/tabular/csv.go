package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/marmos91/sharetab/pkg/transport"
)

// FormatCSV names the CSV codec in errors, logs, and traces.
const FormatCSV = "csv"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures the CSV codec.
type CSVOptions struct {
	// Comma is the field delimiter. Zero selects ','.
	Comma rune
	// NoHeader treats the first record as data. Columns are then named
	// "0", "1", ... on decode, and no header line is written on encode.
	NoHeader bool
	// Comment, if non-zero, starts a line that the decoder skips.
	Comment rune
	// LazyQuotes tolerates quotes in unquoted fields when decoding.
	LazyQuotes bool
	// UseCRLF ends encoded lines with \r\n.
	UseCRLF bool
	// Encoding is the text encoding of the remote file. It is applied by the
	// stream, not by the codec; empty selects the client default.
	Encoding string
}

func (o CSVOptions) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

// DecodeCSV reads a whole CSV stream into a Table.
//
// Every record must have as many fields as the first one. A leading UTF-8
// byte order mark is dropped. Empty input yields an empty table. Errors
// raised by r itself are returned unchanged; malformed content is reported as
// a *transport.FormatError carrying the line number.
func DecodeCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = opts.comma()
	cr.Comment = opts.Comment
	cr.LazyQuotes = opts.LazyQuotes

	t := &Table{}
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		if first {
			first = false
			if opts.NoHeader {
				t.Columns = positionalColumns(len(rec))
			} else {
				t.Columns = rec
				continue
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// EncodeCSV writes t as CSV.
//
// A table with columns and no rows produces only the header line; a table
// with neither produces no output at all.
func EncodeCSV(w io.Writer, t *Table, opts CSVOptions) error {
	if err := t.Validate(); err != nil {
		return &transport.FormatError{Format: FormatCSV, Cause: err}
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.comma()
	cw.UseCRLF = opts.UseCRLF

	if !opts.NoHeader && len(t.Columns) > 0 {
		if err := cw.Write(t.Columns); err != nil {
			return csvError(err)
		}
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return csvError(err)
		}
	}
	cw.Flush()
	return csvError(cw.Error())
}

// csvError passes stream failures through and turns everything else into a
// FormatError.
func csvError(err error) error {
	if err == nil {
		return nil
	}
	var te *transport.TransportError
	if errors.As(err, &te) {
		return err
	}
	fe := &transport.FormatError{Format: FormatCSV, Cause: err}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		fe.Line = pe.Line
		fe.Cause = pe.Err
	}
	return fe
}
