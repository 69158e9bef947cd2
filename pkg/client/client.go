// Package client is the entry point for reading and writing tabular files on
// a network share.
//
// A Client owns one session. It connects lazily on the first operation, and
// Close tears the session down:
//
//	c, err := client.New(client.Properties{
//		Server:   "fs01.corp.local",
//		Share:    "Analytics",
//		Username: "svc-reports",
//		Password: os.Getenv("SHARE_PASSWORD"),
//		Encoding: "latin-1",
//	})
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	table, err := c.ReadCSV(ctx, tabular.CSVOptions{Comma: ';'}, "reports", "q1.csv")
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/marmos91/sharetab/internal/logger"
	"github.com/marmos91/sharetab/internal/telemetry"
	"github.com/marmos91/sharetab/pkg/bufpool"
	"github.com/marmos91/sharetab/pkg/records"
	"github.com/marmos91/sharetab/pkg/tabular"
	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/marmos91/sharetab/pkg/transport/smb"
)

// FormatRaw labels untranscoded byte transfers in logs and traces.
const FormatRaw = "raw"

// Properties identify the share and the account used to reach it.
type Properties struct {
	Server   string
	Share    string
	Username string
	Password string
	Domain   string
	// Port overrides the SMB port. Zero selects 445.
	Port int
	// Encoding is the default text encoding of CSV and record files.
	// Empty selects UTF-8.
	Encoding string
}

// Option configures a Client.
type Option func(*options)

type options struct {
	dialer      transport.Dialer
	metrics     transport.Metrics
	dialTimeout time.Duration
	batchSize   int
	copyBuffer  int
}

// WithDialer replaces the SMB substrate, typically with memory.New() in tests.
func WithDialer(d transport.Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// WithMetrics attaches a metrics sink. Nil disables collection.
func WithMetrics(m transport.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithDialTimeout bounds the TCP connect of the default SMB dialer.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) { o.dialTimeout = d }
}

// WithScanBatchSize sets how many directory entries are fetched per round
// trip by ListDir and ScanDir.
func WithScanBatchSize(n int) Option {
	return func(o *options) { o.batchSize = n }
}

// WithCopyBufferSize sets the buffer size used by Download and Upload.
func WithCopyBufferSize(n int) Option {
	return func(o *options) { o.copyBuffer = n }
}

// Client reads and writes files on one share. It is safe for concurrent use.
type Client struct {
	props    Properties
	sessions *transport.SessionManager
	gateway  *transport.Gateway
	lister   *transport.Lister
	buffers  *bufpool.Pool
}

// New validates props and returns an unconnected Client.
func New(props Properties, opts ...Option) (*Client, error) {
	props.Server = strings.TrimSpace(props.Server)
	props.Share = strings.TrimSpace(props.Share)
	if props.Server == "" {
		return nil, errors.New("client: server is required")
	}
	if props.Share == "" {
		return nil, errors.New("client: share is required")
	}
	if props.Port < 0 || props.Port > 65535 {
		return nil, fmt.Errorf("client: invalid port %d", props.Port)
	}
	if props.Encoding == "" {
		props.Encoding = transport.DefaultEncoding
	}
	if _, err := transport.LookupEncoding(props.Encoding); err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	o := options{dialTimeout: smb.DefaultDialTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dialer == nil {
		o.dialer = smb.NewDialer(o.dialTimeout)
	}

	sessions := transport.NewSessionManager(o.dialer, transport.Credentials{
		Server:   props.Server,
		Port:     props.Port,
		Share:    props.Share,
		Username: props.Username,
		Password: props.Password,
		Domain:   props.Domain,
	}, o.metrics)

	return &Client{
		props:    props,
		sessions: sessions,
		gateway:  transport.NewGateway(sessions, props.Encoding),
		lister:   transport.NewLister(sessions, o.batchSize),
		buffers:  bufpool.For(o.copyBuffer),
	}, nil
}

// Properties returns the client configuration with the password cleared.
func (c *Client) Properties() Properties {
	p := c.props
	p.Password = ""
	return p
}

// Connect establishes the session. Every operation calls it implicitly, so
// calling it up front only moves connection errors earlier.
func (c *Client) Connect(ctx context.Context) error {
	_, err := c.sessions.Connect(ctx)
	return err
}

// Connected reports whether the session is established.
func (c *Client) Connected() bool {
	return c.sessions.Connected()
}

// Address resolves path segments on the client's share.
func (c *Client) Address(segments ...string) transport.Address {
	return c.sessions.Address(segments...)
}

// Close tears down the session. Later operations fail with
// transport.ErrClosed.
func (c *Client) Close() error {
	return c.sessions.Close()
}

// Open opens a file for reading. The caller must close the returned stream.
func (c *Client) Open(ctx context.Context, opts transport.OpenOptions, segments ...string) (*transport.Reader, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c.gateway.OpenRead(ctx, c.Address(segments...), opts)
}

// Create creates or truncates a file and opens it for writing. The caller
// must close the returned stream; closing flushes it.
func (c *Client) Create(ctx context.Context, opts transport.OpenOptions, segments ...string) (*transport.Writer, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c.gateway.OpenWrite(ctx, c.Address(segments...), opts)
}

func (c *Client) read(ctx context.Context, format string, opts transport.OpenOptions, addr transport.Address, decode func(io.Reader) error) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	ctx, span := telemetry.StartCodecSpan(ctx, telemetry.SpanDecode, format, telemetry.UNC(addr.UNC()))
	defer span.End()

	err := c.gateway.WithReader(ctx, addr, opts, decode)
	if err != nil {
		err = transport.WithAddress(err, addr)
		telemetry.RecordError(ctx, err)
		logger.WarnCtx(ctx, "Read failed", logger.Format(format), logger.UNC(addr.UNC()), logger.Err(err))
	}
	return err
}

func (c *Client) write(ctx context.Context, format string, opts transport.OpenOptions, addr transport.Address, encode func(io.Writer) error) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	ctx, span := telemetry.StartCodecSpan(ctx, telemetry.SpanEncode, format, telemetry.UNC(addr.UNC()))
	defer span.End()

	err := c.gateway.WithWriter(ctx, addr, opts, encode)
	if err != nil {
		err = transport.WithAddress(err, addr)
		telemetry.RecordError(ctx, err)
		logger.WarnCtx(ctx, "Write failed", logger.Format(format), logger.UNC(addr.UNC()), logger.Err(err))
	}
	return err
}

// ReadCSV reads a CSV file in text mode. opts.Encoding overrides the client
// encoding for this call.
func (c *Client) ReadCSV(ctx context.Context, opts tabular.CSVOptions, segments ...string) (*tabular.Table, error) {
	var t *tabular.Table
	addr := c.Address(segments...)
	err := c.read(ctx, tabular.FormatCSV, transport.OpenOptions{Encoding: opts.Encoding}, addr, func(r io.Reader) error {
		var err error
		t, err = tabular.DecodeCSV(r, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("CSV read", logger.UNC(addr.UNC()), logger.Rows(t.NumRows()), logger.Columns(t.NumColumns()))
	return t, nil
}

// WriteCSV writes t as a CSV file in text mode, replacing any existing file.
func (c *Client) WriteCSV(ctx context.Context, t *tabular.Table, opts tabular.CSVOptions, segments ...string) error {
	addr := c.Address(segments...)
	return c.write(ctx, tabular.FormatCSV, transport.OpenOptions{Encoding: opts.Encoding}, addr, func(w io.Writer) error {
		return tabular.EncodeCSV(w, t, opts)
	})
}

// ReadExcel reads one worksheet of an .xlsx file in binary mode.
func (c *Client) ReadExcel(ctx context.Context, opts tabular.ExcelOptions, segments ...string) (*tabular.Table, error) {
	var t *tabular.Table
	addr := c.Address(segments...)
	err := c.read(ctx, tabular.FormatExcel, transport.OpenOptions{Mode: transport.ModeBinary}, addr, func(r io.Reader) error {
		var err error
		t, err = tabular.DecodeExcel(r, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// WriteExcel writes t as a single-sheet .xlsx file in binary mode.
func (c *Client) WriteExcel(ctx context.Context, t *tabular.Table, opts tabular.ExcelOptions, segments ...string) error {
	addr := c.Address(segments...)
	return c.write(ctx, tabular.FormatExcel, transport.OpenOptions{Mode: transport.ModeBinary}, addr, func(w io.Writer) error {
		return tabular.EncodeExcel(w, t, opts)
	})
}

// Download copies a remote file byte for byte into w and returns the number
// of bytes copied.
func (c *Client) Download(ctx context.Context, w io.Writer, segments ...string) (int64, error) {
	var n int64
	addr := c.Address(segments...)
	err := c.read(ctx, FormatRaw, transport.OpenOptions{Mode: transport.ModeBinary}, addr, func(r io.Reader) error {
		var err error
		n, err = c.copy(w, r)
		return err
	})
	if err != nil {
		return n, err
	}
	logger.Debug("Downloaded", logger.UNC(addr.UNC()), logger.BytesRead(n))
	return n, nil
}

// Upload creates or truncates a remote file and fills it with the bytes of
// r. It returns the number of bytes copied.
func (c *Client) Upload(ctx context.Context, r io.Reader, segments ...string) (int64, error) {
	var n int64
	addr := c.Address(segments...)
	err := c.write(ctx, FormatRaw, transport.OpenOptions{Mode: transport.ModeBinary}, addr, func(w io.Writer) error {
		var err error
		n, err = c.copy(w, r)
		return err
	})
	if err != nil {
		return n, err
	}
	logger.Debug("Uploaded", logger.UNC(addr.UNC()), logger.BytesWritten(n))
	return n, nil
}

func (c *Client) copy(dst io.Writer, src io.Reader) (int64, error) {
	buf := c.buffers.Get()
	defer c.buffers.Put(buf)
	return io.CopyBuffer(dst, src, buf)
}

// RecordOptions configures ReadRecords and WriteRecords.
type RecordOptions struct {
	// Encoding overrides the client encoding for this call.
	Encoding string
}

// ReadRecords reads a legacy fixed-width record file in text mode.
func (c *Client) ReadRecords(ctx context.Context, opts RecordOptions, segments ...string) (*records.File, error) {
	var f *records.File
	addr := c.Address(segments...)
	err := c.read(ctx, records.Format, transport.OpenOptions{Encoding: opts.Encoding}, addr, func(r io.Reader) error {
		var err error
		f, err = records.Decode(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// WriteRecords writes f as a legacy fixed-width record file in text mode.
//
// f is validated before the remote file is created, so invalid input never
// truncates an existing file.
func (c *Client) WriteRecords(ctx context.Context, f *records.File, opts RecordOptions, segments ...string) error {
	addr := c.Address(segments...)
	if err := records.Encode(io.Discard, f); err != nil {
		return transport.WithAddress(err, addr)
	}
	return c.write(ctx, records.Format, transport.OpenOptions{Encoding: opts.Encoding}, addr, func(w io.Writer) error {
		return records.Encode(w, f)
	})
}

// ListDir returns the names of the entries of a directory. No segments
// lists the share root.
func (c *Client) ListDir(ctx context.Context, segments ...string) ([]string, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c.lister.List(ctx, c.Address(segments...))
}

// ScanDir returns a lazy sequence over the entries of a directory. The
// session is established when iteration starts; a connection failure is
// yielded as the only element.
func (c *Client) ScanDir(ctx context.Context, segments ...string) iter.Seq2[transport.Entry, error] {
	addr := c.Address(segments...)
	return func(yield func(transport.Entry, error) bool) {
		if err := c.Connect(ctx); err != nil {
			yield(transport.Entry{}, err)
			return
		}
		for e, err := range c.lister.Scan(ctx, addr) {
			if !yield(e, err) {
				return
			}
		}
	}
}
