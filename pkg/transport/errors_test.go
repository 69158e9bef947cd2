package transport_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportErrorMessage(t *testing.T) {
	err := &transport.TransportError{
		Op:      transport.OpOpenRead,
		Address: transport.Resolve("fs01", "data", "a.csv"),
		Cause:   fs.ErrNotExist,
	}
	assert.Equal(t, `open_read \\fs01\data\a.csv: file does not exist`, err.Error())
	assert.True(t, transport.IsNotFound(err))
	assert.False(t, transport.IsPermission(err))
}

func TestConnectionErrorMessage(t *testing.T) {
	err := &transport.ConnectionError{Server: "fs01", Share: "data", Username: "bob", Cause: errors.New("timeout")}
	assert.Contains(t, err.Error(), "fs01")
	assert.Contains(t, err.Error(), `"data"`)
	assert.Contains(t, err.Error(), "timeout")
}

func TestFormatErrorMessage(t *testing.T) {
	cause := errors.New("expected 3 fields")
	tests := []struct {
		name string
		err  *transport.FormatError
		want string
	}{
		{"bare", &transport.FormatError{Format: "csv", Cause: cause}, "csv: expected 3 fields"},
		{"line", &transport.FormatError{Format: "csv", Line: 7, Cause: cause}, "csv line 7: expected 3 fields"},
		{
			"address and line",
			&transport.FormatError{Format: "records", Address: transport.Resolve("fs01", "data", "r.txt"), Line: 2, Cause: cause},
			`records \\fs01\data\r.txt line 2: expected 3 fields`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, cause)
		})
	}
}

func TestWithAddress(t *testing.T) {
	addr := transport.Resolve("fs01", "data", "r.txt")
	orig := &transport.FormatError{Format: "records", Line: 1, Cause: errors.New("bad")}

	err := transport.WithAddress(orig, addr)
	var fe *transport.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, addr, fe.Address)
	assert.Empty(t, orig.Address.Server, "original is not mutated")

	other := errors.New("plain")
	assert.Same(t, other, transport.WithAddress(other, addr))
	assert.Nil(t, transport.WithAddress(nil, addr))
}
