// Package pool holds the sync.Pool backed receive buffers of the engine.
package pool

import "sync"

// DefaultBufferSize covers the largest reply the firmware emits with room
// to spare.
const DefaultBufferSize = 2048

// BufferPool hands out fixed-size receive buffers.
type BufferPool struct {
	size int
	pool sync.Pool
}

// NewBufferPool creates a pool of buffers of the given size. A size <= 0
// selects DefaultBufferSize.
func NewBufferPool(size int) *BufferPool {
	if size <= 0 {
		size = DefaultBufferSize
	}
	p := &BufferPool{size: size}
	p.pool.New = func() any {
		buf := make([]byte, p.size)
		return &buf
	}
	return p
}

// Size returns the length of buffers handed out by p.
func (p *BufferPool) Size() int {
	return p.size
}

// Get returns a buffer of length Size().
func (p *BufferPool) Get() *[]byte {
	buf, _ := p.pool.Get().(*[]byte)
	*buf = (*buf)[:p.size]
	return buf
}

// Put returns buf to the pool. Buffers of a different capacity are dropped.
func (p *BufferPool) Put(buf *[]byte) {
	if buf == nil || cap(*buf) != p.size {
		return
	}
	p.pool.Put(buf)
}
