package pool

import (
	"testing"

	"github.com/annel0/voxcore/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBufferBounds(t *testing.T) {
	b := NewMemoryBuffer(8)

	require.NoError(t, b.Write(4, []byte{1, 2, 3, 4}))
	got, err := b.Read(4, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)

	assert.ErrorIs(t, b.Write(6, []byte{1, 2, 3}), ErrBufferRange)
	assert.ErrorIs(t, b.Write(9, nil), ErrBufferRange)
	_, err = b.Read(7, 2)
	assert.ErrorIs(t, err, ErrBufferRange)
}

func TestHeaderNegativeCoords(t *testing.T) {
	h := Header{Coords: vec.Vec3{X: -5, Y: 0, Z: -1 << 20}, VertexCount: 1234}
	raw, err := h.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, raw, HeaderSize)

	var back Header
	require.NoError(t, back.UnmarshalBinary(raw))
	assert.Equal(t, h, back)

	assert.Error(t, back.UnmarshalBinary(raw[:3]))
}
