package commands

import (
	"sync"
)

/**
 * @brief A free-list of command buffers. Buffers handed out by Get are
 * reset and ready to record; Release returns them for reuse.
 */
type Pool struct {
	mutex sync.Mutex
	free  []*Buffer
}

func NewPool(initialSize int) *Pool {
	p := &Pool{
		free: make([]*Buffer, 0, initialSize),
	}
	for i := 0; i < initialSize; i++ {
		p.free = append(p.free, NewBuffer())
	}
	return p
}

func (p *Pool) Get() *Buffer {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	n := len(p.free)
	if n == 0 {
		return NewBuffer()
	}
	buf := p.free[n-1]
	p.free = p.free[:n-1]
	return buf
}

func (p *Pool) Release(buf *Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.free = append(p.free, buf)
}

// Free returns the number of pooled buffers, for tests and diagnostics.
func (p *Pool) Free() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.free)
}
