package utils

import (
	"bytes"
	"sync"
)

// MaxBufferSize is the largest buffer returned to a pool. Bigger ones are
// dropped so one large feed does not pin memory.
const MaxBufferSize = 64 * 1024

// BufferPool manages a pool of reusable bytes.Buffer objects for response
// and frontmatter encoding.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a new BufferPool
func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// Get retrieves an empty buffer from the pool
func (p *BufferPool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

// Put returns a buffer to the pool, resetting it for reuse.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf.Cap() > MaxBufferSize {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

// SharedBufferPool is used by the HTTP layer and the post scaffolder.
var SharedBufferPool = NewBufferPool()
