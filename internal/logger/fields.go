package logger

import "log/slog"

// Standard field keys for structured logging. Use these consistently so log
// lines from the CLI and the library can be queried the same way.
const (
	// Tracing
	KeyTraceID   = "trace_id"
	KeySpanID    = "span_id"
	KeyRequestID = "request_id"

	// Remote resource
	KeyServer    = "server"
	KeyShare     = "share"
	KeyPath      = "path"
	KeyUNC       = "unc"
	KeyUsername  = "username"
	KeyDomain    = "domain"
	KeySessionID = "session_id"

	// Operation
	KeyOperation  = "operation"
	KeyMode       = "mode"     // text or binary
	KeyEncoding   = "encoding" // text encoding of a stream
	KeyFormat     = "format"   // csv, excel, records
	KeyDurationMs = "duration_ms"
	KeyError      = "error"

	// I/O
	KeyBytesRead    = "bytes_read"
	KeyBytesWritten = "bytes_written"
	KeyEntries      = "entries"
	KeyRows         = "rows"
	KeyColumns      = "columns"
	KeyBatchSize    = "batch_size"
)

func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }

func SpanID(id string) slog.Attr { return slog.String(KeySpanID, id) }

func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }

func Server(name string) slog.Attr { return slog.String(KeyServer, name) }

func Share(name string) slog.Attr { return slog.String(KeyShare, name) }

func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// UNC returns a full \\server\share\path attribute
func UNC(p string) slog.Attr { return slog.String(KeyUNC, p) }

func Username(name string) slog.Attr { return slog.String(KeyUsername, name) }

func Domain(name string) slog.Attr { return slog.String(KeyDomain, name) }

func SessionID(id string) slog.Attr { return slog.String(KeySessionID, id) }

func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

func Mode(m string) slog.Attr { return slog.String(KeyMode, m) }

func Encoding(name string) slog.Attr { return slog.String(KeyEncoding, name) }

func Format(name string) slog.Attr { return slog.String(KeyFormat, name) }

func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns an error attribute. A nil error yields an empty attribute that
// handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

func BytesRead(n int64) slog.Attr { return slog.Int64(KeyBytesRead, n) }

func BytesWritten(n int64) slog.Attr { return slog.Int64(KeyBytesWritten, n) }

func Entries(n int) slog.Attr { return slog.Int(KeyEntries, n) }

func Rows(n int) slog.Attr { return slog.Int(KeyRows, n) }

func Columns(n int) slog.Attr { return slog.Int(KeyColumns, n) }

func BatchSize(n int) slog.Attr { return slog.Int(KeyBatchSize, n) }
