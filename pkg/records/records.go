// Package records reads and writes the legacy fixed-width record format.
//
// A file is a header line, any number of item lines, and a terminator line:
//
//	VVVIIIIIII               version (3) and file id (up to 7)
//	NNNNNDDDDDDDDDDDDDDDVVVVVVVVVV    id (5, zero padded), description (15,
//	                                  left aligned), value (10, two decimals)
//	FIM
//
// Widths are counted in characters, not bytes. Lines may end in \n or \r\n.
// Anything after the terminator is ignored.
package records

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/marmos91/sharetab/pkg/transport"
)

// Format names the codec in errors, logs, and traces.
const Format = "records"

// Terminator ends the item section.
const Terminator = "FIM"

const (
	versionWidth     = 3
	fileIDWidth      = 7
	idWidth          = 5
	descriptionWidth = 15
	valueWidth       = 10
	maxID            = 99999
)

// Header is the first line of a file.
type Header struct {
	Version string
	FileID  string
}

// Item is one data line.
type Item struct {
	ID          int
	Description string
	Value       float64
}

// File is a decoded record file. Metadata is never serialized; Decode
// returns it empty so callers can annotate the result.
type File struct {
	Header   Header
	Items    []Item
	Metadata map[string]string
}

// Decode reads a record file from r.
//
// Descriptions are returned without their trailing padding. A missing header
// or terminator and any malformed item are reported as a
// *transport.FormatError with the 1-based line number. Errors raised by r are
// returned unchanged.
func Decode(r io.Reader) (*File, error) {
	lr := &lineReader{r: bufio.NewReader(r)}

	line, err := lr.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, formatErr(1, errors.New("header not found"))
		}
		return nil, err
	}
	header := strings.TrimSpace(line)
	if header == "" {
		return nil, formatErr(lr.n, errors.New("header not found"))
	}

	f := &File{
		Header: Header{
			Version: runeSlice(header, 0, versionWidth),
			FileID:  runeSlice(header, versionWidth, versionWidth+fileIDWidth),
		},
		Metadata: map[string]string{},
	}

	for {
		line, err := lr.next()
		if errors.Is(err, io.EOF) {
			return nil, formatErr(lr.n+1, fmt.Errorf("missing %q terminator", Terminator))
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == Terminator {
			return f, nil
		}
		item, err := parseItem(line)
		if err != nil {
			return nil, formatErr(lr.n, err)
		}
		f.Items = append(f.Items, item)
	}
}

func parseItem(line string) (Item, error) {
	const valueStart = idWidth + descriptionWidth
	if n := utf8.RuneCountInString(line); n <= valueStart {
		return Item{}, fmt.Errorf("item line has %d characters, need more than %d", n, valueStart)
	}

	idText := strings.TrimSpace(runeSlice(line, 0, idWidth))
	id, err := strconv.Atoi(idText)
	if err != nil {
		return Item{}, fmt.Errorf("invalid id %q", idText)
	}

	valueText := strings.TrimSpace(runeSlice(line, valueStart, -1))
	value, err := strconv.ParseFloat(valueText, 64)
	if err != nil {
		return Item{}, fmt.Errorf("invalid value %q", valueText)
	}

	return Item{
		ID:          id,
		Description: strings.TrimRight(runeSlice(line, idWidth, valueStart), " "),
		Value:       value,
	}, nil
}

// Encode writes f to w. The whole file is validated before anything is
// written, so a *transport.FormatError never leaves partial output behind.
func Encode(w io.Writer, f *File) error {
	if err := validate(f); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s%s\n", f.Header.Version, f.Header.FileID)
	for _, it := range f.Items {
		fmt.Fprintf(bw, "%0*d%-*s%*.2f\n", idWidth, it.ID, descriptionWidth, it.Description, valueWidth, it.Value)
	}
	bw.WriteString(Terminator + "\n")
	return bw.Flush()
}

func validate(f *File) error {
	h := f.Header
	if n := utf8.RuneCountInString(h.Version); n != versionWidth {
		return formatErr(1, fmt.Errorf("version %q must be %d characters", h.Version, versionWidth))
	}
	if n := utf8.RuneCountInString(h.FileID); n > fileIDWidth {
		return formatErr(1, fmt.Errorf("file id %q exceeds %d characters", h.FileID, fileIDWidth))
	}
	if strings.ContainsAny(h.Version+h.FileID, "\r\n") {
		return formatErr(1, errors.New("header contains a line break"))
	}

	for i, it := range f.Items {
		line := i + 2
		if it.ID < 0 || it.ID > maxID {
			return formatErr(line, fmt.Errorf("id %d outside 0..%d", it.ID, maxID))
		}
		if n := utf8.RuneCountInString(it.Description); n > descriptionWidth {
			return formatErr(line, fmt.Errorf("description %q exceeds %d characters", it.Description, descriptionWidth))
		}
		if strings.ContainsAny(it.Description, "\r\n") {
			return formatErr(line, errors.New("description contains a line break"))
		}
		if math.IsNaN(it.Value) || math.IsInf(it.Value, 0) {
			return formatErr(line, fmt.Errorf("value %v is not finite", it.Value))
		}
		if s := strconv.FormatFloat(it.Value, 'f', 2, 64); len(s) > valueWidth {
			return formatErr(line, fmt.Errorf("value %s exceeds %d characters", s, valueWidth))
		}
	}
	return nil
}

func formatErr(line int, cause error) error {
	return &transport.FormatError{Format: Format, Line: line, Cause: cause}
}

// runeSlice returns the characters [from, to) of s, clamped to its length.
// A negative to means the end of s.
func runeSlice(s string, from, to int) string {
	runes := []rune(s)
	if to < 0 || to > len(runes) {
		to = len(runes)
	}
	if from > to {
		return ""
	}
	return string(runes[from:to])
}

// lineReader yields lines without their terminator and counts them.
type lineReader struct {
	r *bufio.Reader
	n int
}

func (lr *lineReader) next() (string, error) {
	line, err := lr.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	lr.n++
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
