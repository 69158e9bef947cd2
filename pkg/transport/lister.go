package transport

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"iter"
	"time"

	"github.com/marmos91/sharetab/internal/logger"
	"github.com/marmos91/sharetab/internal/telemetry"
)

// DefaultScanBatchSize is the number of entries requested per directory read.
const DefaultScanBatchSize = 64

// Entry describes one child of a listed directory.
type Entry struct {
	Name    string
	IsDir   bool
	IsFile  bool
	Size    int64
	ModTime time.Time
	Mode    fs.FileMode
}

func newEntry(fi fs.FileInfo) Entry {
	mode := fi.Mode()
	return Entry{
		Name:    fi.Name(),
		IsDir:   mode.IsDir(),
		IsFile:  mode.IsRegular(),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
		Mode:    mode,
	}
}

// Lister enumerates directories on the session held by a SessionManager.
type Lister struct {
	sessions  *SessionManager
	batchSize int
}

// NewLister creates a Lister reading batchSize entries per round trip.
// A batchSize below 1 selects DefaultScanBatchSize.
func NewLister(sessions *SessionManager, batchSize int) *Lister {
	if batchSize < 1 {
		batchSize = DefaultScanBatchSize
	}
	return &Lister{sessions: sessions, batchSize: batchSize}
}

// List returns the names of the children of addr in server order. The "."
// and ".." entries are never included.
func (l *Lister) List(ctx context.Context, addr Address) ([]string, error) {
	var names []string
	err := l.enumerate(ctx, OpList, addr, func(e Entry) bool {
		names = append(names, e.Name)
		return true
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Scan returns a lazy, single-pass sequence over the children of addr.
//
// Nothing is requested from the server until iteration starts. Entries are
// fetched in batches as the consumer advances. A failure is yielded once, as
// the error half of the final pair. Stopping early releases the directory
// handle.
func (l *Lister) Scan(ctx context.Context, addr Address) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		stopped := false
		err := l.enumerate(ctx, OpScan, addr, func(e Entry) bool {
			if !yield(e, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(Entry{}, err)
		}
	}
}

// enumerate opens addr and calls fn for every child until fn returns false,
// the directory is exhausted, or an error occurs. The handle is closed on
// every path.
func (l *Lister) enumerate(ctx context.Context, op string, addr Address, fn func(Entry) bool) (err error) {
	s, err := l.sessions.Session()
	if err != nil {
		return wrap(op, addr, err)
	}

	sc := begin(ctx, l.sessions.Metrics(), op, addr)
	count := 0
	defer func() {
		recordEntries(l.sessions.Metrics(), count)
		telemetry.SetAttributes(sc.ctx, telemetry.Entries(count))
		sc.end(err, logger.Entries(count))
	}()

	dir, err := s.conn.OpenDir(sc.ctx, addr.Path)
	if err != nil {
		return wrap(op, addr, err)
	}
	defer func() {
		if cerr := dir.Close(); cerr != nil && err == nil {
			err = wrap(OpClose, addr, cerr)
		}
	}()

	for {
		if err := sc.ctx.Err(); err != nil {
			return wrap(op, addr, err)
		}

		batch, rerr := dir.ReadDir(l.batchSize)
		for _, fi := range batch {
			if name := fi.Name(); name == "." || name == ".." {
				continue
			}
			count++
			if !fn(newEntry(fi)) {
				return nil
			}
		}

		switch {
		case errors.Is(rerr, io.EOF):
			return nil
		case rerr != nil:
			return wrap(op, addr, rerr)
		case len(batch) == 0:
			return nil
		}
	}
}
