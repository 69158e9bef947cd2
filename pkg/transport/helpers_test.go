package transport_test

import (
	"sync"
	"testing"
	"time"

	"github.com/marmos91/sharetab/pkg/transport"
	"github.com/marmos91/sharetab/pkg/transport/memory"
	"github.com/stretchr/testify/require"
)

// recordingMetrics is a transport.Metrics that keeps every observation.
type recordingMetrics struct {
	mu         sync.Mutex
	connects   []error
	operations map[string]int
	failures   map[string]int
	bytes      map[string]int64
	entries    int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		operations: make(map[string]int),
		failures:   make(map[string]int),
		bytes:      make(map[string]int64),
	}
}

func (m *recordingMetrics) ObserveConnect(_ string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connects = append(m.connects, err)
}

func (m *recordingMetrics) ObserveOperation(op string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[op]++
	if err != nil {
		m.failures[op]++
	}
}

func (m *recordingMetrics) RecordBytes(direction string, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bytes[direction] += n
}

func (m *recordingMetrics) RecordEntries(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries += n
}

type fixture struct {
	share    *memory.Share
	metrics  *recordingMetrics
	sessions *transport.SessionManager
	gateway  *transport.Gateway
	lister   *transport.Lister
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	share := memory.New()
	m := newRecordingMetrics()
	sessions := transport.NewSessionManager(share, transport.Credentials{
		Server:   "fs01",
		Share:    "data",
		Username: "alice",
	}, m)
	t.Cleanup(func() { _ = sessions.Close() })
	return &fixture{
		share:    share,
		metrics:  m,
		sessions: sessions,
		gateway:  transport.NewGateway(sessions, ""),
		lister:   transport.NewLister(sessions, 2),
	}
}

func (f *fixture) connect(t *testing.T) {
	t.Helper()
	_, err := f.sessions.Connect(t.Context())
	require.NoError(t, err)
}

func (f *fixture) addr(segments ...string) transport.Address {
	return f.sessions.Address(segments...)
}
