package transport

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"sync"

	"github.com/marmos91/sharetab/internal/logger"
	"github.com/marmos91/sharetab/internal/telemetry"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Mode selects how a stream treats file content.
type Mode int

const (
	// ModeText transcodes between the file's text encoding and UTF-8.
	ModeText Mode = iota
	// ModeBinary passes bytes through unchanged.
	ModeBinary
)

func (m Mode) String() string {
	if m == ModeBinary {
		return "binary"
	}
	return "text"
}

// OpenOptions configures one stream.
type OpenOptions struct {
	Mode Mode
	// Encoding overrides the gateway default for text streams. Ignored in
	// binary mode.
	Encoding string
}

// Gateway opens remote files as directional byte streams on the session held
// by a SessionManager.
type Gateway struct {
	sessions        *SessionManager
	defaultEncoding string
}

// NewGateway creates a Gateway. An empty defaultEncoding selects UTF-8.
func NewGateway(sessions *SessionManager, defaultEncoding string) *Gateway {
	if defaultEncoding == "" {
		defaultEncoding = DefaultEncoding
	}
	return &Gateway{sessions: sessions, defaultEncoding: defaultEncoding}
}

func (g *Gateway) encoding(opts OpenOptions) (string, encoding.Encoding, error) {
	if opts.Mode == ModeBinary {
		return "", encoding.Nop, nil
	}
	name := opts.Encoding
	if name == "" {
		name = g.defaultEncoding
	}
	enc, err := LookupEncoding(name)
	return name, enc, err
}

// OpenRead opens addr for reading. The session must already be connected.
//
// The returned Reader must be closed; prefer WithReader, which guarantees it.
func (g *Gateway) OpenRead(ctx context.Context, addr Address, opts OpenOptions) (*Reader, error) {
	name, enc, err := g.encoding(opts)
	if err != nil {
		return nil, wrap(OpOpenRead, addr, err)
	}
	s, err := g.sessions.Session()
	if err != nil {
		return nil, wrap(OpOpenRead, addr, err)
	}

	sc := begin(ctx, g.sessions.Metrics(), OpOpenRead, addr,
		telemetry.Mode(opts.Mode.String()), telemetry.Encoding(name))
	raw, err := s.conn.OpenRead(sc.ctx, addr.Path)
	if err != nil {
		err = wrap(OpOpenRead, addr, err)
		sc.end(err, logger.Mode(opts.Mode.String()))
		return nil, err
	}
	sc.end(nil, logger.Mode(opts.Mode.String()))

	r := &Reader{
		ctx:     sc.ctx,
		addr:    addr,
		raw:     raw,
		metrics: g.sessions.Metrics(),
	}
	r.src = &r.counted
	r.counted.r = raw
	if !isPassthrough(enc) {
		r.src = transform.NewReader(&r.counted, enc.NewDecoder())
	}
	return r, nil
}

// OpenWrite creates or truncates addr and opens it for writing. The session
// must already be connected.
//
// The returned Writer must be closed to flush buffered output; prefer
// WithWriter, which guarantees it.
func (g *Gateway) OpenWrite(ctx context.Context, addr Address, opts OpenOptions) (*Writer, error) {
	name, enc, err := g.encoding(opts)
	if err != nil {
		return nil, wrap(OpOpenWrite, addr, err)
	}
	s, err := g.sessions.Session()
	if err != nil {
		return nil, wrap(OpOpenWrite, addr, err)
	}

	sc := begin(ctx, g.sessions.Metrics(), OpOpenWrite, addr,
		telemetry.Mode(opts.Mode.String()), telemetry.Encoding(name))
	raw, err := s.conn.OpenWrite(sc.ctx, addr.Path)
	if err != nil {
		err = wrap(OpOpenWrite, addr, err)
		sc.end(err, logger.Mode(opts.Mode.String()))
		return nil, err
	}
	sc.end(nil, logger.Mode(opts.Mode.String()))

	w := &Writer{
		ctx:     sc.ctx,
		addr:    addr,
		raw:     raw,
		metrics: g.sessions.Metrics(),
	}
	w.counted.w = raw
	w.dst = &w.counted
	if !isPassthrough(enc) {
		w.encoder = transform.NewWriter(&w.counted, enc.NewEncoder())
		w.dst = w.encoder
	}
	return w, nil
}

// WithReader opens addr, passes the stream to fn, and closes it on every exit
// path. An error from fn takes precedence over an error from closing.
func (g *Gateway) WithReader(ctx context.Context, addr Address, opts OpenOptions, fn func(io.Reader) error) (err error) {
	r, err := g.OpenRead(ctx, addr, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(r)
}

// WithWriter opens addr for writing, passes the stream to fn, and closes it
// on every exit path. The stream is flushed on close, so a flush failure is
// reported when fn succeeded.
func (g *Gateway) WithWriter(ctx context.Context, addr Address, opts OpenOptions, fn func(io.Writer) error) (err error) {
	w, err := g.OpenWrite(ctx, addr, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(w)
}

// Reader is a read-only stream over one remote file. It is not safe for
// concurrent use.
type Reader struct {
	ctx     context.Context
	addr    Address
	raw     io.ReadCloser
	counted countingReader
	src     io.Reader
	metrics Metrics

	closeOnce sync.Once
	closeErr  error
	closed    bool
}

// Address returns the file the stream reads from.
func (r *Reader) Address() Address { return r.addr }

// Read reads decoded content. It returns io.EOF, unwrapped, at the end of
// the file and a *TransportError for any other failure.
func (r *Reader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, wrap(OpRead, r.addr, fs.ErrClosed)
	}
	if err := r.ctx.Err(); err != nil {
		return 0, wrap(OpRead, r.addr, err)
	}
	n, err := r.src.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = wrap(OpRead, r.addr, err)
	}
	return n, err
}

// Close releases the remote handle. Only the first call has effect.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		r.closed = true
		r.closeErr = wrap(OpClose, r.addr, r.raw.Close())
		recordBytes(r.metrics, DirectionRead, r.counted.n)
		logger.DebugCtx(r.ctx, "Read stream closed", logger.BytesRead(r.counted.n), logger.Err(r.closeErr))
	})
	return r.closeErr
}

// Writer is a write-only stream over one remote file. It is not safe for
// concurrent use.
type Writer struct {
	ctx     context.Context
	addr    Address
	raw     io.WriteCloser
	counted countingWriter
	encoder *transform.Writer
	dst     io.Writer
	metrics Metrics

	closeOnce sync.Once
	closeErr  error
	closed    bool
}

// Address returns the file the stream writes to.
func (w *Writer) Address() Address { return w.addr }

// Write encodes p and writes it to the remote file.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, wrap(OpWrite, w.addr, fs.ErrClosed)
	}
	if err := w.ctx.Err(); err != nil {
		return 0, wrap(OpWrite, w.addr, err)
	}
	n, err := w.dst.Write(p)
	return n, wrap(OpWrite, w.addr, err)
}

// Close flushes pending encoded output and releases the remote handle. Only
// the first call has effect; the handle is released even when the flush
// fails.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		w.closed = true
		var flushErr error
		if w.encoder != nil {
			flushErr = w.encoder.Close()
		}
		closeErr := w.raw.Close()
		if flushErr != nil {
			w.closeErr = wrap(OpWrite, w.addr, errors.Join(flushErr, closeErr))
		} else {
			w.closeErr = wrap(OpClose, w.addr, closeErr)
		}
		recordBytes(w.metrics, DirectionWrite, w.counted.n)
		logger.DebugCtx(w.ctx, "Write stream closed", logger.BytesWritten(w.counted.n), logger.Err(w.closeErr))
	})
	return w.closeErr
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
