// Package bufpool recycles the fixed-size buffers used to copy raw streams
// between a share and local files.
//
// Every buffer handed out by a Pool has the same capacity, so a copy loop
// can take one per transfer and give it back afterwards:
//
//	pool := bufpool.For(64 << 10)
//	buf := pool.Get()
//	defer pool.Put(buf)
//	n, err := io.CopyBuffer(dst, src, buf)
package bufpool

import (
	"sync"
)

// DefaultSize is used when a pool is requested with a non-positive size.
const DefaultSize = 64 << 10

// Pool hands out byte slices of one fixed size. It is safe for concurrent use.
type Pool struct {
	size int
	pool sync.Pool
}

// New creates a pool of size-byte buffers.
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	p := &Pool{size: size}
	p.pool.New = func() any {
		buf := make([]byte, p.size)
		return &buf
	}
	return p
}

// Size returns the length of the buffers returned by Get.
func (p *Pool) Size() int {
	return p.size
}

// Get returns a buffer of exactly Size bytes. Its contents are undefined.
func (p *Pool) Get() []byte {
	return *p.pool.Get().(*[]byte)
}

// Put returns buf to the pool. Buffers of another capacity are dropped and
// left to the garbage collector. buf must not be used afterwards.
func (p *Pool) Put(buf []byte) {
	if cap(buf) != p.size {
		return
	}
	buf = buf[:p.size]
	p.pool.Put(&buf)
}

// shared holds one pool per buffer size, so clients configured with the
// same copy buffer reuse each other's buffers.
var shared sync.Map // int -> *Pool

// For returns the process-wide pool for size-byte buffers.
func For(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	if p, ok := shared.Load(size); ok {
		return p.(*Pool)
	}
	p, _ := shared.LoadOrStore(size, New(size))
	return p.(*Pool)
}
