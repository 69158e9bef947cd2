package transport

import (
	"context"
	"io"
	"io/fs"
)

// Credentials identify and authenticate one session.
type Credentials struct {
	Server   string
	Port     int // 0 selects the substrate default
	Share    string
	Username string
	Password string
	Domain   string
}

// Dialer establishes authenticated connections to a share.
//
// Implementations return errors that match fs.ErrNotExist or fs.ErrPermission
// (via errors.Is) where the remote status allows it.
type Dialer interface {
	Dial(ctx context.Context, creds Credentials) (Conn, error)
}

// Conn is an authenticated, mounted share. Paths are relative to the share
// root, use Separator, and are already canonical.
//
// A Conn is used concurrently by every stream and listing of its session.
type Conn interface {
	// OpenRead opens an existing file for reading.
	OpenRead(ctx context.Context, path string) (io.ReadCloser, error)

	// OpenWrite creates the file, truncating any existing content.
	OpenWrite(ctx context.Context, path string) (io.WriteCloser, error)

	// OpenDir opens a directory for enumeration. The empty path is the share
	// root.
	OpenDir(ctx context.Context, path string) (DirHandle, error)

	// Close tears down the share mount and the session.
	Close() error
}

// DirHandle enumerates one open directory.
type DirHandle interface {
	// ReadDir returns up to n entries. At the end of the directory it returns
	// an empty slice and io.EOF.
	ReadDir(n int) ([]fs.FileInfo, error)

	Close() error
}
