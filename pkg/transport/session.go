package transport

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/sharetab/internal/logger"
	"github.com/marmos91/sharetab/internal/telemetry"
)

// Session is one authenticated connection to a share. Every stream and
// listing opened through a SessionManager borrows its Session; none of them
// owns it.
type Session struct {
	ID        string
	Server    string
	Share     string
	Username  string
	CreatedAt time.Time

	conn Conn
}

// SessionManager establishes and holds the single session of a client.
//
// Connect may be called any number of times, from any number of goroutines;
// at most one dial is ever in flight and a connected manager never dials
// again. Readers of the established session never block.
type SessionManager struct {
	dialer  Dialer
	creds   Credentials
	metrics Metrics

	mu      sync.Mutex // serializes dial and close
	current atomic.Pointer[Session]
	closed  bool
}

// NewSessionManager creates an unconnected SessionManager. metrics may be nil.
func NewSessionManager(dialer Dialer, creds Credentials, metrics Metrics) *SessionManager {
	return &SessionManager{
		dialer:  dialer,
		creds:   creds,
		metrics: metrics,
	}
}

// Connect establishes the session if it is not already established.
//
// On failure the manager stays unconnected and a later Connect retries.
func (m *SessionManager) Connect(ctx context.Context) (*Session, error) {
	if s := m.current.Load(); s != nil {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	if s := m.current.Load(); s != nil {
		return s, nil
	}

	ctx, span := telemetry.StartShareSpan(ctx, OpConnect, m.creds.Server, m.creds.Share, "",
		telemetry.Username(m.creds.Username),
		telemetry.Domain(m.creds.Domain),
	)
	defer span.End()

	start := time.Now()
	conn, err := m.dialer.Dial(ctx, m.creds)
	observeConnect(m.metrics, m.creds.Server, time.Since(start), err)
	if err != nil {
		err = &ConnectionError{
			Server:   m.creds.Server,
			Share:    m.creds.Share,
			Username: m.creds.Username,
			Cause:    err,
		}
		telemetry.RecordError(ctx, err)
		logger.Warn("Session establishment failed",
			logger.Server(m.creds.Server),
			logger.Share(m.creds.Share),
			logger.Username(m.creds.Username),
			logger.Err(err))
		return nil, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		Server:    m.creds.Server,
		Share:     m.creds.Share,
		Username:  m.creds.Username,
		CreatedAt: time.Now(),
		conn:      conn,
	}
	m.current.Store(s)
	telemetry.SetAttributes(ctx, telemetry.SessionID(s.ID))

	logger.Debug("Session established",
		logger.SessionID(s.ID),
		logger.Server(s.Server),
		logger.Share(s.Share),
		logger.Username(s.Username),
		logger.DurationMs(logger.Duration(start)))
	return s, nil
}

// Session returns the established session, or ErrNotConnected.
func (m *SessionManager) Session() (*Session, error) {
	if s := m.current.Load(); s != nil {
		return s, nil
	}
	return nil, ErrNotConnected
}

// Connected reports whether a session is established.
func (m *SessionManager) Connected() bool {
	return m.current.Load() != nil
}

// Metrics returns the metrics sink the manager was created with.
func (m *SessionManager) Metrics() Metrics {
	return m.metrics
}

// Address resolves path segments against the manager's server and share.
func (m *SessionManager) Address(segments ...string) Address {
	return Resolve(m.creds.Server, m.creds.Share, segments...)
}

// Close tears down the session. It is safe to call more than once; after the
// first call Connect returns ErrClosed.
//
// Streams still open on the session fail on their next read or write.
func (m *SessionManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	s := m.current.Swap(nil)
	if s == nil {
		return nil
	}

	_, span := telemetry.StartShareSpan(context.Background(), OpClose, s.Server, s.Share, "",
		telemetry.SessionID(s.ID))
	defer span.End()

	if err := s.conn.Close(); err != nil {
		logger.Warn("Session teardown failed", logger.SessionID(s.ID), logger.Err(err))
		return fmt.Errorf("close session %s: %w", s.ID, err)
	}
	logger.Debug("Session closed", logger.SessionID(s.ID))
	return nil
}
