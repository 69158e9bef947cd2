// Package memory provides an in-memory share that implements transport.Dialer.
//
// It counts dials, opens, and releases, and can inject failures at dial,
// open, and I/O time, which makes it the substrate of choice for tests of
// code built on package transport.
package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"path"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marmos91/sharetab/pkg/transport"
)

// ErrLogonFailure is returned by Dial when credentials do not match.
var ErrLogonFailure = fmt.Errorf("logon failure: %w", fs.ErrPermission)

type node struct {
	name     string
	dir      bool
	data     []byte
	modTime  time.Time
	children []*node // insertion order
}

func (n *node) child(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

type ioFault struct {
	after int // bytes for files, entries for directories
	err   error
}

// Share is an in-memory file tree served over a fake session.
type Share struct {
	mu   sync.Mutex
	root *node

	username string
	password string
	hasCreds bool

	dialDelay time.Duration
	dialErr   error
	openErrs  map[string]error
	ioErrs    map[string]ioFault

	dials    atomic.Int64
	opens    atomic.Int64
	releases atomic.Int64
	closes   atomic.Int64
}

// New creates an empty share.
func New() *Share {
	return &Share{
		root:     &node{dir: true, modTime: time.Now()},
		openErrs: make(map[string]error),
		ioErrs:   make(map[string]ioFault),
	}
}

func clean(p string) string {
	parts := strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' })
	return strings.Join(parts, "/")
}

// AddFile creates or replaces the file at p, creating parent directories.
func (s *Share) AddFile(p string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir, name := path.Split(clean(p))
	parent := s.mkdirLocked(dir)
	if n := parent.child(name); n != nil {
		n.dir, n.data, n.modTime = false, bytes.Clone(data), time.Now()
		return
	}
	parent.children = append(parent.children, &node{name: name, data: bytes.Clone(data), modTime: time.Now()})
}

// Mkdir creates the directory at p and any missing parents.
func (s *Share) Mkdir(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mkdirLocked(clean(p))
}

func (s *Share) mkdirLocked(p string) *node {
	cur := s.root
	for _, part := range strings.Split(strings.Trim(p, "/"), "/") {
		if part == "" {
			continue
		}
		next := cur.child(part)
		if next == nil {
			next = &node{name: part, dir: true, modTime: time.Now()}
			cur.children = append(cur.children, next)
		}
		cur = next
	}
	return cur
}

// File returns a copy of the content of the file at p.
func (s *Share) File(p string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.lookupLocked(clean(p))
	if n == nil || n.dir {
		return nil, false
	}
	return bytes.Clone(n.data), true
}

func (s *Share) lookupLocked(p string) *node {
	cur := s.root
	if p == "" {
		return cur
	}
	for _, part := range strings.Split(p, "/") {
		if cur = cur.child(part); cur == nil {
			return nil
		}
	}
	return cur
}

// SetCredentials makes Dial reject any other username and password.
func (s *Share) SetCredentials(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username, s.password, s.hasCreds = username, password, true
}

// SetDialDelay makes every Dial wait d before completing.
func (s *Share) SetDialDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialDelay = d
}

// FailDial makes subsequent dials fail with err. A nil err clears the fault.
func (s *Share) FailDial(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialErr = err
}

// FailOpen makes opening p fail with err.
func (s *Share) FailOpen(p string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openErrs[clean(p)] = err
}

// FailIO makes I/O on p fail with err once after bytes (files) or entries
// (directories) have been transferred.
func (s *Share) FailIO(p string, after int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ioErrs[clean(p)] = ioFault{after: after, err: err}
}

// Dials returns the number of Dial calls that reached the share.
func (s *Share) Dials() int { return int(s.dials.Load()) }

// Opens returns the number of handles successfully opened.
func (s *Share) Opens() int { return int(s.opens.Load()) }

// Releases returns the number of handles released. Every call to a handle's
// Close counts, so a value above Opens reveals a double release.
func (s *Share) Releases() int { return int(s.releases.Load()) }

// OpenHandles returns the number of handles currently open.
func (s *Share) OpenHandles() int { return s.Opens() - s.Releases() }

// Closes returns the number of connections torn down.
func (s *Share) Closes() int { return int(s.closes.Load()) }

// Dial implements transport.Dialer.
func (s *Share) Dial(ctx context.Context, creds transport.Credentials) (transport.Conn, error) {
	s.dials.Add(1)

	s.mu.Lock()
	delay, dialErr := s.dialDelay, s.dialErr
	credsOK := !s.hasCreds || (creds.Username == s.username && creds.Password == s.password)
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if dialErr != nil {
		return nil, dialErr
	}
	if !credsOK {
		return nil, ErrLogonFailure
	}
	return &conn{share: s}, nil
}

type conn struct {
	share  *Share
	closed atomic.Bool
}

func (c *conn) check(ctx context.Context, p string) error {
	if c.closed.Load() {
		return net.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.share.mu.Lock()
	defer c.share.mu.Unlock()
	return c.share.openErrs[clean(p)]
}

func (c *conn) fault(p string) (ioFault, bool) {
	c.share.mu.Lock()
	defer c.share.mu.Unlock()
	f, ok := c.share.ioErrs[clean(p)]
	return f, ok
}

func (c *conn) OpenRead(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := c.check(ctx, p); err != nil {
		return nil, err
	}
	c.share.mu.Lock()
	n := c.share.lookupLocked(clean(p))
	var data []byte
	if n != nil && !n.dir {
		data = bytes.Clone(n.data)
	}
	c.share.mu.Unlock()

	switch {
	case n == nil:
		return nil, fs.ErrNotExist
	case n.dir:
		return nil, errors.New("is a directory")
	}

	c.share.opens.Add(1)
	f := &fileReader{conn: c, r: bytes.NewReader(data)}
	if fault, ok := c.fault(p); ok {
		f.fault = &fault
	}
	return f, nil
}

func (c *conn) OpenWrite(ctx context.Context, p string) (io.WriteCloser, error) {
	if err := c.check(ctx, p); err != nil {
		return nil, err
	}
	p = clean(p)
	dir, name := path.Split(p)

	c.share.mu.Lock()
	parent := c.share.lookupLocked(strings.TrimSuffix(dir, "/"))
	if parent == nil || !parent.dir {
		c.share.mu.Unlock()
		return nil, fs.ErrNotExist
	}
	n := parent.child(name)
	if n != nil && n.dir {
		c.share.mu.Unlock()
		return nil, errors.New("is a directory")
	}
	if n == nil {
		n = &node{name: name}
		parent.children = append(parent.children, n)
	}
	n.data, n.modTime = nil, time.Now()
	c.share.mu.Unlock()

	c.share.opens.Add(1)
	f := &fileWriter{conn: c, node: n}
	if fault, ok := c.fault(p); ok {
		f.fault = &fault
	}
	return f, nil
}

func (c *conn) OpenDir(ctx context.Context, p string) (transport.DirHandle, error) {
	if err := c.check(ctx, p); err != nil {
		return nil, err
	}
	c.share.mu.Lock()
	n := c.share.lookupLocked(clean(p))
	var infos []fs.FileInfo
	if n != nil && n.dir {
		infos = append(infos, fileInfo{node: &node{name: ".", dir: true}}, fileInfo{node: &node{name: "..", dir: true}})
		for _, ch := range n.children {
			infos = append(infos, fileInfo{node: &node{name: ch.name, dir: ch.dir, data: ch.data, modTime: ch.modTime}})
		}
	}
	c.share.mu.Unlock()

	switch {
	case n == nil:
		return nil, fs.ErrNotExist
	case !n.dir:
		return nil, errors.New("not a directory")
	}

	c.share.opens.Add(1)
	d := &dirHandle{conn: c, infos: infos}
	if fault, ok := c.fault(p); ok {
		fault.after += 2 // "." and ".."
		d.fault = &fault
	}
	return d, nil
}

func (c *conn) Close() error {
	if c.closed.Swap(true) {
		return net.ErrClosed
	}
	c.share.closes.Add(1)
	return nil
}

type fileReader struct {
	conn  *conn
	r     *bytes.Reader
	read  int
	fault *ioFault
}

func (f *fileReader) Read(p []byte) (int, error) {
	if f.conn.closed.Load() {
		return 0, net.ErrClosed
	}
	if f.fault != nil {
		remaining := f.fault.after - f.read
		if remaining <= 0 {
			err := f.fault.err
			f.fault = nil
			return 0, err
		}
		if len(p) > remaining {
			p = p[:remaining]
		}
	}
	n, err := f.r.Read(p)
	f.read += n
	return n, err
}

func (f *fileReader) Close() error {
	f.conn.share.releases.Add(1)
	return nil
}

type fileWriter struct {
	conn    *conn
	node    *node
	written int
	fault   *ioFault
}

func (f *fileWriter) Write(p []byte) (int, error) {
	if f.conn.closed.Load() {
		return 0, net.ErrClosed
	}
	var injected error
	if f.fault != nil {
		remaining := max(f.fault.after-f.written, 0)
		if len(p) > remaining {
			p = p[:remaining]
			injected = f.fault.err
			f.fault = nil
		}
	}
	f.conn.share.mu.Lock()
	f.node.data = append(f.node.data, p...)
	f.node.modTime = time.Now()
	f.conn.share.mu.Unlock()
	f.written += len(p)
	return len(p), injected
}

func (f *fileWriter) Close() error {
	f.conn.share.releases.Add(1)
	return nil
}

type dirHandle struct {
	conn  *conn
	infos []fs.FileInfo
	pos   int
	fault *ioFault
}

func (d *dirHandle) ReadDir(n int) ([]fs.FileInfo, error) {
	if d.conn.closed.Load() {
		return nil, net.ErrClosed
	}
	if d.fault != nil && d.pos >= d.fault.after {
		err := d.fault.err
		d.fault = nil
		return nil, err
	}
	if d.pos >= len(d.infos) {
		return nil, io.EOF
	}
	end := min(d.pos+n, len(d.infos))
	if d.fault != nil {
		end = min(end, max(d.fault.after, d.pos))
	}
	batch := slices.Clone(d.infos[d.pos:end])
	d.pos = end
	return batch, nil
}

func (d *dirHandle) Close() error {
	d.conn.share.releases.Add(1)
	return nil
}

type fileInfo struct {
	node *node
}

func (fi fileInfo) Name() string { return fi.node.name }

func (fi fileInfo) Size() int64 { return int64(len(fi.node.data)) }

func (fi fileInfo) Mode() fs.FileMode {
	if fi.node.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

func (fi fileInfo) ModTime() time.Time { return fi.node.modTime }

func (fi fileInfo) IsDir() bool { return fi.node.dir }

func (fi fileInfo) Sys() any { return nil }
