// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

package pool

import "sync"

// BytePool hands out byte slices of one fixed size.
type BytePool struct {
	pool *SyncPool[*[]byte]
	size int
}

// NewBytePool returns a pool of size-byte slices.
func NewBytePool(size int) *BytePool {
	return &BytePool{
		pool: NewSyncPool(func() *[]byte {
			b := make([]byte, size)
			return &b
		}),
		size: size,
	}
}

// Size returns the slice length served by the pool.
func (b *BytePool) Size() int { return b.size }

// GetBuffer returns a buffer of Size bytes.
func (b *BytePool) GetBuffer() []byte {
	return *b.pool.Get()
}

// PutBuffer returns buf to the pool. Slices of a foreign size are dropped.
func (b *BytePool) PutBuffer(buf []byte) {
	if cap(buf) != b.size {
		return
	}
	buf = buf[:b.size]
	b.pool.Put(&buf)
}

var (
	sizedMu    sync.Mutex
	sizedPools = map[int]*BytePool{}
)

// ForSize returns the process-wide pool for size, creating it on first use.
func ForSize(size int) *BytePool {
	sizedMu.Lock()
	defer sizedMu.Unlock()
	p, ok := sizedPools[size]
	if !ok {
		p = NewBytePool(size)
		sizedPools[size] = p
	}
	return p
}
