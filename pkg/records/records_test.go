package records

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "0012024ABC\n" +
	"00001Parafuso" + "            " + "12.50\n" +
	"00042Porca sextavada   1234.00\n" +
	"FIM\n"

func TestDecode(t *testing.T) {
	f, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, Header{Version: "001", FileID: "2024ABC"}, f.Header)
	assert.Equal(t, []Item{
		{ID: 1, Description: "Parafuso", Value: 12.5},
		{ID: 42, Description: "Porca sextavada", Value: 1234},
	}, f.Items)
	assert.NotNil(t, f.Metadata)
	assert.Empty(t, f.Metadata)
}

func TestDecodeCRLFAndTrailingContent(t *testing.T) {
	in := "0010000001\r\n00007Café               3.10\r\nFIM\r\nignored garbage\n"
	f, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, f.Items, 1)
	assert.Equal(t, "Café", f.Items[0].Description)
	assert.Equal(t, 3.1, f.Items[0].Value)
}

func TestDecodeTerminatorWithWhitespace(t *testing.T) {
	f, err := Decode(strings.NewReader("001X\n  FIM  \n"))
	require.NoError(t, err)
	assert.Empty(t, f.Items)
	assert.Equal(t, "X", f.Header.FileID)
}

func TestDecodeTerminatorWithoutNewline(t *testing.T) {
	f, err := Decode(strings.NewReader("001X\nFIM"))
	require.NoError(t, err)
	assert.Empty(t, f.Items)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
		msg  string
	}{
		{"empty input", "", 1, "header not found"},
		{"blank header", "   \n", 1, "header not found"},
		{"missing terminator", "001X\n00001Parafuso          12.50\n", 3, "terminator"},
		{"short item", "001X\n00001abc\nFIM\n", 2, "characters"},
		{"bad id", "001X\n0000aParafuso          12.50\nFIM\n", 2, "invalid id"},
		{"bad value", "001X\n00001Parafuso          12,50\nFIM\n", 2, "invalid value"},
		{"blank item line", "001X\n\nFIM\n", 2, "characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			var fe *transport.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, Format, fe.Format)
			assert.Equal(t, tt.line, fe.Line)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecodePassesReaderErrors(t *testing.T) {
	cause := &transport.TransportError{Op: transport.OpRead, Cause: errors.New("reset")}
	_, err := Decode(iotest.ErrReader(cause))
	var te *transport.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestEncode(t *testing.T) {
	f := &File{
		Header: Header{Version: "001", FileID: "2024ABC"},
		Items: []Item{
			{ID: 1, Description: "Parafuso", Value: 12.5},
			{ID: 42, Description: "Porca sextavada", Value: 1234},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f))
	assert.Equal(t, sample, buf.String())
}

func TestEncodeZeroItems(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &File{Header: Header{Version: "002", FileID: "EMPTY"}}))
	assert.Equal(t, "002EMPTY\nFIM\n", buf.String())

	f, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, f.Items)
	assert.Equal(t, "EMPTY", f.Header.FileID)
}

func TestEncodeCountsCharactersNotBytes(t *testing.T) {
	var buf bytes.Buffer
	f := &File{
		Header: Header{Version: "001", FileID: "X"},
		Items:  []Item{{ID: 7, Description: "Pão de açúcar", Value: 2}},
	}
	require.NoError(t, Encode(&buf, f))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, 30, len([]rune(lines[1])))
}

func TestRoundTrip(t *testing.T) {
	f := &File{
		Header: Header{Version: "003", FileID: "LOTE001"},
		Items: []Item{
			{ID: 0, Description: "", Value: 0},
			{ID: 99999, Description: "quinze-chars-ok", Value: 9999999.99},
			{ID: 123, Description: "negativo", Value: -42.25},
			{ID: 5, Description: "Ação", Value: 0.1},
		},
		Metadata: map[string]string{"source": "test"},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f))
	got, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, f.Header, got.Header)
	assert.Equal(t, f.Items, got.Items)
	assert.Empty(t, got.Metadata, "metadata is not serialized")
}

func TestEncodeRejects(t *testing.T) {
	valid := Header{Version: "001", FileID: "X"}
	tests := []struct {
		name string
		file *File
		line int
	}{
		{"short version", &File{Header: Header{Version: "01"}}, 1},
		{"long file id", &File{Header: Header{Version: "001", FileID: "12345678"}}, 1},
		{"newline in header", &File{Header: Header{Version: "001", FileID: "a\nb"}}, 1},
		{"negative id", &File{Header: valid, Items: []Item{{ID: -1}}}, 2},
		{"id too wide", &File{Header: valid, Items: []Item{{ID: 1}, {ID: 100000}}}, 3},
		{"description too wide", &File{Header: valid, Items: []Item{{Description: "sixteen chars!!!"}}}, 2},
		{"newline in description", &File{Header: valid, Items: []Item{{Description: "a\nb"}}}, 2},
		{"value too wide", &File{Header: valid, Items: []Item{{Value: 12345678.9}}}, 2},
		{"NaN", &File{Header: valid, Items: []Item{{Value: math.NaN()}}}, 2},
		{"Inf", &File{Header: valid, Items: []Item{{Value: math.Inf(1)}}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Encode(&buf, tt.file)
			var fe *transport.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.line, fe.Line)
			assert.Zero(t, buf.Len(), "nothing written")
		})
	}
}
