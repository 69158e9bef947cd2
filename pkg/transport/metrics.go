package transport

import "time"

// Byte stream directions reported to Metrics.RecordBytes.
const (
	DirectionRead  = "read"
	DirectionWrite = "write"
)

// Metrics receives observations from the session manager, the stream gateway,
// and the lister.
//
// A nil Metrics disables collection with no overhead. Implementations must be
// safe for concurrent use.
type Metrics interface {
	// ObserveConnect records one session establishment attempt.
	ObserveConnect(server string, duration time.Duration, err error)

	// ObserveOperation records a completed open, list, or scan.
	ObserveOperation(op string, duration time.Duration, err error)

	// RecordBytes records bytes moved through a stream in direction.
	RecordBytes(direction string, n int64)

	// RecordEntries records directory entries yielded by List or Scan.
	RecordEntries(n int)
}

func observeConnect(m Metrics, server string, d time.Duration, err error) {
	if m != nil {
		m.ObserveConnect(server, d, err)
	}
}

func observeOperation(m Metrics, op string, d time.Duration, err error) {
	if m != nil {
		m.ObserveOperation(op, d, err)
	}
}

func recordBytes(m Metrics, direction string, n int64) {
	if m != nil && n > 0 {
		m.RecordBytes(direction, n)
	}
}

func recordEntries(m Metrics, n int) {
	if m != nil && n > 0 {
		m.RecordEntries(n)
	}
}
