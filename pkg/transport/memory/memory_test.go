package memory_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net"
	"testing"
	"time"

	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/marmos91/sharetab/pkg/transport/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, s *memory.Share) transport.Conn {
	t.Helper()
	c, err := s.Dial(context.Background(), transport.Credentials{Server: "mem", Share: "data"})
	require.NoError(t, err)
	return c
}

func TestReadWriteRoundTrip(t *testing.T) {
	s := memory.New()
	s.Mkdir("out")
	c := dial(t, s)
	ctx := context.Background()

	w, err := c.OpenWrite(ctx, `out\a.txt`)
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, ok := s.File("out/a.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(got))

	r, err := c.OpenRead(ctx, `out\a.txt`)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "hello", string(data))

	assert.Equal(t, 2, s.Opens())
	assert.Equal(t, 2, s.Releases())
	assert.Zero(t, s.OpenHandles())
}

func TestOpenWriteTruncates(t *testing.T) {
	s := memory.New()
	s.AddFile("a.txt", []byte("old content"))
	c := dial(t, s)

	w, err := c.OpenWrite(context.Background(), "a.txt")
	require.NoError(t, err)
	got, _ := s.File("a.txt")
	assert.Empty(t, got)
	require.NoError(t, w.Close())
}

func TestOpenWriteMissingParent(t *testing.T) {
	c := dial(t, memory.New())
	_, err := c.OpenWrite(context.Background(), `missing\a.txt`)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMissingFile(t *testing.T) {
	c := dial(t, memory.New())
	_, err := c.OpenRead(context.Background(), "nope.csv")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCredentials(t *testing.T) {
	s := memory.New()
	s.SetCredentials("alice", "secret")

	_, err := s.Dial(context.Background(), transport.Credentials{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, fs.ErrPermission)

	_, err = s.Dial(context.Background(), transport.Credentials{Username: "alice", Password: "secret"})
	assert.NoError(t, err)
	assert.Equal(t, 2, s.Dials())
}

func TestFailDial(t *testing.T) {
	s := memory.New()
	boom := errors.New("unreachable")
	s.FailDial(boom)

	_, err := s.Dial(context.Background(), transport.Credentials{})
	assert.ErrorIs(t, err, boom)

	s.FailDial(nil)
	_, err = s.Dial(context.Background(), transport.Credentials{})
	assert.NoError(t, err)
}

func TestDialDelayHonorsContext(t *testing.T) {
	s := memory.New()
	s.SetDialDelay(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Dial(ctx, transport.Credentials{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFailIOOnRead(t *testing.T) {
	s := memory.New()
	s.AddFile("a.bin", []byte("0123456789"))
	boom := errors.New("reset")
	s.FailIO("a.bin", 4, boom)
	c := dial(t, s)

	r, err := c.OpenRead(context.Background(), "a.bin")
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "0123", string(data))
	require.NoError(t, r.Close())
}

func TestFailIOOnWrite(t *testing.T) {
	s := memory.New()
	boom := errors.New("disk full")
	s.FailIO("a.bin", 3, boom)
	c := dial(t, s)

	w, err := c.OpenWrite(context.Background(), "a.bin")
	require.NoError(t, err)
	n, err := w.Write([]byte("abcdef"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, n)
	require.NoError(t, w.Close())

	got, _ := s.File("a.bin")
	assert.Equal(t, "abc", string(got))
}

func TestDirectoryListing(t *testing.T) {
	s := memory.New()
	s.AddFile("d/b.csv", []byte("x"))
	s.AddFile("d/a.csv", []byte("yy"))
	s.Mkdir("d/sub")
	c := dial(t, s)

	d, err := c.OpenDir(context.Background(), "d")
	require.NoError(t, err)
	defer d.Close()

	var names []string
	for {
		batch, err := d.ReadDir(2)
		for _, fi := range batch {
			names = append(names, fi.Name())
		}
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, []string{".", "..", "b.csv", "a.csv", "sub"}, names)
}

func TestOpenDirOnFile(t *testing.T) {
	s := memory.New()
	s.AddFile("a.csv", nil)
	c := dial(t, s)

	_, err := c.OpenDir(context.Background(), "a.csv")
	assert.Error(t, err)
	assert.Zero(t, s.Opens())
}

func TestClosedConn(t *testing.T) {
	s := memory.New()
	s.AddFile("a.csv", []byte("x"))
	c := dial(t, s)

	r, err := c.OpenRead(context.Background(), "a.csv")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = r.Read(make([]byte, 1))
	assert.ErrorIs(t, err, net.ErrClosed)
	_, err = c.OpenRead(context.Background(), "a.csv")
	assert.ErrorIs(t, err, net.ErrClosed)
	assert.ErrorIs(t, c.Close(), net.ErrClosed)
	assert.Equal(t, 1, s.Closes())
}
