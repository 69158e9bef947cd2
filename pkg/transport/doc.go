// Package transport implements a session-scoped client for files hosted on a
// network share.
//
// The package is organized around four collaborators:
//
//   - Resolve maps (server, share, path segments) to a canonical Address.
//   - SessionManager owns the single authenticated session of a client.
//     Connect is idempotent and safe for concurrent first calls.
//   - Gateway opens an Address as a directional byte stream (Reader or Writer)
//     in text or binary mode. WithReader and WithWriter release the stream on
//     every exit path.
//   - Lister enumerates a directory, either materialized (List) or as a lazy,
//     single-pass sequence (Scan).
//
// The wire protocol is supplied by a Dialer. Package smb provides the SMB2/3
// implementation; package memory provides an in-memory share used by tests.
//
// # Errors
//
// Session establishment failures are reported as *ConnectionError. Failures of
// open, read, write, list, and scan operations are reported as *TransportError
// carrying the resolved Address. Codecs layered on top of the streams report
// malformed content as *FormatError. All three wrap the original cause.
//
// Nothing in this package retries. A failed write leaves the remote resource in
// an indeterminate state.
package transport
