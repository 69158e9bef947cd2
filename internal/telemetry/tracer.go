package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for share client spans. Remote resource keys follow the
// OpenTelemetry "server.*" conventions; the rest use a "share." prefix.
const (
	AttrServerAddress = "server.address"
	AttrServerPort    = "server.port"
	AttrShare         = "share.name"
	AttrPath          = "share.path"
	AttrUNC           = "share.unc"
	AttrOperation     = "share.operation"
	AttrMode          = "share.mode"
	AttrEncoding      = "share.encoding"
	AttrBytesRead     = "share.bytes_read"
	AttrBytesWritten  = "share.bytes_written"
	AttrEntries       = "share.entries"
	AttrFormat        = "tabular.format"
	AttrRows          = "tabular.rows"
	AttrUsername      = "user.name"
	AttrDomain        = "user.domain"
	AttrSessionID     = "session.id"
)

// Span names. Format: <component>.<operation>
const (
	SpanConnect   = "smb.connect"
	SpanOpenRead  = "smb.open_read"
	SpanOpenWrite = "smb.open_write"
	SpanList      = "smb.list"
	SpanScan      = "smb.scan"
	SpanClose     = "smb.close"

	SpanDecode = "tabular.decode"
	SpanEncode = "tabular.encode"
)

func ServerAddress(host string) attribute.KeyValue {
	return attribute.String(AttrServerAddress, host)
}

func ServerPort(port int) attribute.KeyValue {
	return attribute.Int(AttrServerPort, port)
}

func Share(name string) attribute.KeyValue {
	return attribute.String(AttrShare, name)
}

func Path(p string) attribute.KeyValue {
	return attribute.String(AttrPath, p)
}

func UNC(p string) attribute.KeyValue {
	return attribute.String(AttrUNC, p)
}

func Operation(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

func Mode(m string) attribute.KeyValue {
	return attribute.String(AttrMode, m)
}

func Encoding(name string) attribute.KeyValue {
	return attribute.String(AttrEncoding, name)
}

func BytesRead(n int64) attribute.KeyValue {
	return attribute.Int64(AttrBytesRead, n)
}

func BytesWritten(n int64) attribute.KeyValue {
	return attribute.Int64(AttrBytesWritten, n)
}

func Entries(n int) attribute.KeyValue {
	return attribute.Int(AttrEntries, n)
}

func Format(name string) attribute.KeyValue {
	return attribute.String(AttrFormat, name)
}

func Rows(n int) attribute.KeyValue {
	return attribute.Int(AttrRows, n)
}

func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

func Domain(name string) attribute.KeyValue {
	return attribute.String(AttrDomain, name)
}

func SessionID(id string) attribute.KeyValue {
	return attribute.String(AttrSessionID, id)
}

// StartShareSpan starts a span for an operation against a remote share.
// The span is named "smb.<operation>".
func StartShareSpan(ctx context.Context, operation, server, share, path string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, 4+len(attrs))
	all = append(all, Operation(operation), ServerAddress(server), Share(share))
	if path != "" {
		all = append(all, Path(path))
	}
	all = append(all, attrs...)
	return StartSpan(ctx, "smb."+operation, trace.WithAttributes(all...))
}

// StartCodecSpan starts a span for decoding or encoding a tabular format.
func StartCodecSpan(ctx context.Context, name, format string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{Format(format)}, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(all...))
}
