package pool

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBufferRange - запись или чтение за пределами буфера
var ErrBufferRange = errors.New("buffer access out of range")

// Buffer - регион памяти, которым владеет вызывающий (обычно GPU-буфер).
// Пул только пишет в него по смещениям, выданным аллокатором.
type Buffer interface {
	Write(offset uint64, data []byte) error
}

// MemoryBuffer - Buffer в оперативной памяти
type MemoryBuffer struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryBuffer создаёт буфер размера size
func NewMemoryBuffer(size uint64) *MemoryBuffer {
	return &MemoryBuffer{data: make([]byte, size)}
}

// Write копирует data по смещению offset
func (b *MemoryBuffer) Write(offset uint64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset > uint64(len(b.data)) || uint64(len(data)) > uint64(len(b.data))-offset {
		return fmt.Errorf("%w: write %d bytes at %d, size %d", ErrBufferRange, len(data), offset, len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

// Read возвращает копию n байт начиная с offset
func (b *MemoryBuffer) Read(offset, n uint64) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset > uint64(len(b.data)) || n > uint64(len(b.data))-offset {
		return nil, fmt.Errorf("%w: read %d bytes at %d, size %d", ErrBufferRange, n, offset, len(b.data))
	}
	out := make([]byte, n)
	copy(out, b.data[offset:offset+n])
	return out, nil
}

// Size возвращает размер буфера
func (b *MemoryBuffer) Size() uint64 {
	return uint64(len(b.data))
}
