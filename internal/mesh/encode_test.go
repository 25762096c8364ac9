package mesh

import (
	"testing"

	"github.com/annel0/voxcore/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderWidth(t *testing.T) {
	cases := map[int]uint{1: 1, 2: 2, 3: 2, 16: 5, 31: 5, 32: 6, 63: 6, 64: 7}
	for size, want := range cases {
		e, err := NewEncoder(size)
		require.NoError(t, err)
		assert.Equal(t, want, e.Width(), "size %d", size)
	}

	_, err := NewEncoder(1 << 11)
	assert.ErrorIs(t, err, ErrEncodingTooWide)
}

func TestEncoderRoundTrip(t *testing.T) {
	const n = 32
	e, err := NewEncoder(n)
	require.NoError(t, err)

	for x := uint32(0); x <= n; x++ {
		for y := uint32(0); y <= n; y++ {
			for z := uint32(0); z <= n; z++ {
				v, err := e.Encode(x, y, z)
				require.NoError(t, err)
				dx, dy, dz := e.Decode(v)
				if dx != x || dy != y || dz != z {
					t.Fatalf("round trip (%d,%d,%d) -> (%d,%d,%d)", x, y, z, dx, dy, dz)
				}
			}
		}
	}
}

func TestEncoderOverflow(t *testing.T) {
	e, err := NewEncoder(31)
	require.NoError(t, err)

	_, err = e.Encode(31, 31, 31)
	assert.NoError(t, err)

	_, err = e.Encode(32, 0, 0)
	assert.ErrorIs(t, err, ErrCoordinateOverflow, "обрезание бит недопустимо")
	_, err = e.Encode(0, 0, 1<<20)
	assert.ErrorIs(t, err, ErrCoordinateOverflow)
}

func TestQuadVerticesSingleCell(t *testing.T) {
	e, err := NewEncoder(8)
	require.NoError(t, err)

	decode := func(vs [VerticesPerQuad]EncodedVertex) [][3]uint32 {
		out := make([][3]uint32, 0, len(vs))
		for _, v := range vs {
			x, y, z := e.Decode(v)
			out = append(out, [3]uint32{x, y, z})
		}
		return out
	}

	cell := u(2, 3, 4)
	vs, err := e.QuadVertices(Quad{Dir: DirPosX, Block: block.StoneBlockID, Min: cell, Max: cell})
	require.NoError(t, err)
	assert.Equal(t, [][3]uint32{
		{3, 3, 4}, {3, 4, 4}, {3, 4, 5},
		{3, 3, 4}, {3, 4, 5}, {3, 3, 5},
	}, decode(vs))

	vs, err = e.QuadVertices(Quad{Dir: DirNegY, Block: block.StoneBlockID, Min: cell, Max: cell})
	require.NoError(t, err)
	for _, p := range decode(vs) {
		assert.Equal(t, uint32(3), p[1], "-Y грань лежит на y клетки")
	}

	vs, err = e.QuadVertices(Quad{Dir: DirPosZ, Block: block.StoneBlockID, Min: cell, Max: cell})
	require.NoError(t, err)
	for _, p := range decode(vs) {
		assert.Equal(t, uint32(5), p[2], "+Z грань лежит на z+1")
	}
}

func TestQuadVerticesInvalidDirection(t *testing.T) {
	e, err := NewEncoder(8)
	require.NoError(t, err)

	_, err = e.QuadVertices(Quad{Dir: Direction(9)})
	assert.ErrorIs(t, err, ErrInvalidDirection)
}
