// File: pool/bytepool_test.go
// Author: momentics <momentics@gmail.com>

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytePool_Size(t *testing.T) {
	p := NewBytePool(64)
	buf := p.GetBuffer()
	assert.Len(t, buf, 64)
	assert.Equal(t, 64, p.Size())
	p.PutBuffer(buf[:10])
	assert.Len(t, p.GetBuffer(), 64)
}

func TestBytePool_DropsForeignSize(t *testing.T) {
	p := NewBytePool(16)
	p.PutBuffer(make([]byte, 32))
	assert.Len(t, p.GetBuffer(), 16)
}

func TestForSize_Shared(t *testing.T) {
	assert.Same(t, ForSize(128), ForSize(128))
	assert.NotSame(t, ForSize(128), ForSize(256))
}

func TestSyncPool_Creator(t *testing.T) {
	n := 0
	p := NewSyncPool(func() int { n++; return n })
	assert.Equal(t, 1, p.Get())
}
