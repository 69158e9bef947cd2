package transport

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/sharetab/internal/logger"
	"github.com/marmos91/sharetab/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// opScope ties together the span, log context, and timing of one operation.
type opScope struct {
	ctx     context.Context
	span    trace.Span
	op      string
	start   time.Time
	metrics Metrics
}

func begin(ctx context.Context, m Metrics, op string, addr Address, attrs ...attribute.KeyValue) *opScope {
	ctx, span := telemetry.StartShareSpan(ctx, op, addr.Server, addr.Share, addr.Path, attrs...)

	lc := logger.NewLogContext(op, addr.Server, addr.Share).
		WithPath(addr.Path).
		WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
	lc.RequestID = uuid.NewString()

	return &opScope{
		ctx:     logger.WithContext(ctx, lc),
		span:    span,
		op:      op,
		start:   lc.StartTime,
		metrics: m,
	}
}

// end records err and the elapsed time, then ends the span.
func (s *opScope) end(err error, attrs ...any) {
	elapsed := time.Since(s.start)
	observeOperation(s.metrics, s.op, elapsed, err)

	if err != nil {
		telemetry.RecordError(s.ctx, err)
		logger.DebugCtx(s.ctx, "operation failed", append(attrs, logger.Err(err), logger.DurationMs(logger.Duration(s.start)))...)
	} else {
		logger.DebugCtx(s.ctx, "operation completed", append(attrs, logger.DurationMs(logger.Duration(s.start)))...)
	}
	s.span.End()
}
