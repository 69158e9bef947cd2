package smb

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"os"
	"testing"
	"time"

	"github.com/hirochachacha/go-smb2"
	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		code       uint32
		notExist   bool
		permission bool
	}{
		{"object name not found", statusObjectNameNotFound, true, false},
		{"object path not found", statusObjectPathNotFound, true, false},
		{"bad network name", statusBadNetworkName, true, false},
		{"access denied", statusAccessDenied, false, true},
		{"logon failure", statusLogonFailure, false, true},
		{"locked out", statusAccountLockedOut, false, true},
		{"not a directory", statusNotADirectory, false, false},
		{"other", 0xC0000001, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &os.PathError{Op: "open", Path: "a.csv", Err: &smb2.ResponseError{Code: tt.code}}
			err := classify(raw)

			assert.Equal(t, tt.notExist, errors.Is(err, fs.ErrNotExist))
			assert.Equal(t, tt.permission, errors.Is(err, fs.ErrPermission))

			var rerr *smb2.ResponseError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.code, rerr.Code)
		})
	}
}

func TestClassifyPassesThrough(t *testing.T) {
	assert.NoError(t, classify(nil))
	plain := errors.New("boom")
	assert.Same(t, plain, classify(plain))
}

func TestDialUnreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	d := NewDialer(time.Second)
	_, err = d.Dial(context.Background(), transport.Credentials{Server: "127.0.0.1", Port: port, Share: "data"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial 127.0.0.1:")
}
