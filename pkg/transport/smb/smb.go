// Package smb implements transport.Dialer over SMB2/SMB3 with NTLM
// authentication.
package smb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/hirochachacha/go-smb2"
	"github.com/marmos91/sharetab/internal/logger"
	"github.com/marmos91/sharetab/pkg/transport"
)

// DefaultPort is the SMB-over-TCP port.
const DefaultPort = 445

// DefaultDialTimeout bounds TCP connection establishment.
const DefaultDialTimeout = 30 * time.Second

// NTSTATUS codes that map onto io/fs sentinel errors.
const (
	statusAccessDenied        = 0xC0000022
	statusObjectNameNotFound  = 0xC0000034
	statusObjectPathNotFound  = 0xC000003A
	statusLogonFailure        = 0xC000006D
	statusAccountRestriction  = 0xC000006E
	statusPasswordExpired     = 0xC0000071
	statusBadNetworkName      = 0xC00000CC
	statusNotADirectory       = 0xC0000103
	statusNoSuchFile          = 0xC000000F
	statusAccountDisabled     = 0xC0000072
	statusAccountLockedOut    = 0xC0000234
	statusNetworkAccessDenied = 0xC00000CA
)

// Dialer connects to SMB servers. The zero value is usable.
type Dialer struct {
	// Timeout bounds the TCP connect. Zero selects DefaultDialTimeout.
	Timeout time.Duration
}

// NewDialer returns a Dialer with the given TCP connect timeout.
func NewDialer(timeout time.Duration) *Dialer {
	return &Dialer{Timeout: timeout}
}

// Dial opens a TCP connection, authenticates with NTLM, and mounts the share.
// Every partially established resource is released when a later step fails.
func (d *Dialer) Dial(ctx context.Context, creds transport.Credentials) (transport.Conn, error) {
	port := creds.Port
	if port == 0 {
		port = DefaultPort
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	hostport := net.JoinHostPort(creds.Server, strconv.Itoa(port))

	nd := net.Dialer{Timeout: timeout}
	tcp, err := nd.DialContext(ctx, "tcp", hostport)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", hostport, err)
	}

	sd := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     creds.Username,
			Password: creds.Password,
			Domain:   creds.Domain,
		},
	}
	session, err := sd.DialContext(ctx, tcp)
	if err != nil {
		_ = tcp.Close()
		return nil, fmt.Errorf("negotiate session: %w", classify(err))
	}

	unc := transport.Resolve(creds.Server, creds.Share).UNC()
	share, err := session.Mount(unc)
	if err != nil {
		_ = session.Logoff()
		_ = tcp.Close()
		return nil, fmt.Errorf("mount %s: %w", unc, classify(err))
	}

	logger.Debug("SMB share mounted", logger.UNC(unc), logger.Username(creds.Username), logger.Domain(creds.Domain))
	return &conn{tcp: tcp, session: session, share: share}, nil
}

type conn struct {
	tcp     net.Conn
	session *smb2.Session
	share   *smb2.Share
}

func (c *conn) OpenRead(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := c.share.WithContext(ctx).Open(path)
	if err != nil {
		return nil, classify(err)
	}
	return &file{f: f}, nil
}

func (c *conn) OpenWrite(ctx context.Context, path string) (io.WriteCloser, error) {
	f, err := c.share.WithContext(ctx).Create(path)
	if err != nil {
		return nil, classify(err)
	}
	return &file{f: f}, nil
}

func (c *conn) OpenDir(ctx context.Context, path string) (transport.DirHandle, error) {
	f, err := c.share.WithContext(ctx).Open(path)
	if err != nil {
		return nil, classify(err)
	}
	return &dir{f: f}, nil
}

func (c *conn) Close() error {
	var errs []error
	if err := c.share.Umount(); err != nil {
		errs = append(errs, fmt.Errorf("unmount: %w", err))
	}
	if err := c.session.Logoff(); err != nil {
		errs = append(errs, fmt.Errorf("logoff: %w", err))
	}
	if err := c.tcp.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type file struct {
	f *smb2.File
}

func (f *file) Read(p []byte) (int, error) {
	n, err := f.f.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = classify(err)
	}
	return n, err
}

func (f *file) Write(p []byte) (int, error) {
	n, err := f.f.Write(p)
	return n, classify(err)
}

func (f *file) Close() error {
	return classify(f.f.Close())
}

type dir struct {
	f *smb2.File
}

func (d *dir) ReadDir(n int) ([]fs.FileInfo, error) {
	infos, err := d.f.Readdir(n)
	if err != nil && !errors.Is(err, io.EOF) {
		err = classify(err)
	}
	return infos, err
}

func (d *dir) Close() error {
	return classify(d.f.Close())
}

// classify attaches fs.ErrNotExist or fs.ErrPermission to errors carrying a
// matching NTSTATUS, so callers can test them with errors.Is.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var rerr *smb2.ResponseError
	if !errors.As(err, &rerr) {
		return err
	}
	switch rerr.Code {
	case statusObjectNameNotFound, statusObjectPathNotFound, statusNoSuchFile, statusBadNetworkName:
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
		}
	case statusAccessDenied, statusNetworkAccessDenied, statusLogonFailure, statusAccountRestriction,
		statusPasswordExpired, statusAccountDisabled, statusAccountLockedOut:
		if !errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %w", fs.ErrPermission, err)
		}
	case statusNotADirectory:
		return fmt.Errorf("not a directory: %w", err)
	}
	return err
}
