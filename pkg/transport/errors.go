package transport

import (
	"errors"
	"fmt"
	"io/fs"
)

// Operation names carried by TransportError and reported to logs, traces, and
// metrics.
const (
	OpConnect   = "connect"
	OpOpenRead  = "open_read"
	OpOpenWrite = "open_write"
	OpRead      = "read"
	OpWrite     = "write"
	OpClose     = "close"
	OpList      = "list"
	OpScan      = "scan"
)

var (
	// ErrNotConnected is returned when an operation needs a session and
	// Connect has not succeeded yet.
	ErrNotConnected = errors.New("session not connected")

	// ErrClosed is returned by Connect after the SessionManager was closed.
	ErrClosed = errors.New("session manager closed")

	// ErrUnknownEncoding is returned for text encodings that cannot be resolved.
	ErrUnknownEncoding = errors.New("unknown text encoding")
)

// ConnectionError reports a failure to establish the session.
type ConnectionError struct {
	Server   string
	Share    string
	Username string
	Cause    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to establish session with %s (share %q, user %q): %v",
		e.Server, e.Share, e.Username, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// TransportError reports a failed operation against an established session.
type TransportError struct {
	Op      string
	Address Address
	Cause   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Address.UNC(), e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// FormatError reports content that a codec could not decode or encode.
//
// Address is the zero value when the codec ran outside a transport call, and
// Line is 0 when the position is unknown.
type FormatError struct {
	Format  string
	Address Address
	Line    int
	Cause   error
}

func (e *FormatError) Error() string {
	msg := e.Format
	if e.Address.Server != "" {
		msg += " " + e.Address.UNC()
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	return fmt.Sprintf("%s: %v", msg, e.Cause)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// WithAddress returns err with addr attached when err is a *FormatError that
// has no address yet. Other errors are returned unchanged.
func WithAddress(err error, addr Address) error {
	var fe *FormatError
	if errors.As(err, &fe) && fe.Address.Server == "" {
		cp := *fe
		cp.Address = addr
		return &cp
	}
	return err
}

// IsNotFound reports whether err was caused by a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// IsPermission reports whether err was caused by an access denial.
func IsPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}

func wrap(op string, addr Address, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Op: op, Address: addr, Cause: err}
}
