package world

import (
	"math/rand"
	"testing"

	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkCreateAndGetBlock(t *testing.T) {
	coords := vec.Vec3{X: 5, Y: -1, Z: 10}
	chunk := NewDefaultChunk(coords)

	assert.Equal(t, coords, chunk.Coords)
	assert.Equal(t, DefaultChunkSize, chunk.Size)

	// Новый чанк пуст
	pos := vec.UVec3{X: 3, Y: 4, Z: 5}
	assert.Equal(t, block.AirBlockID, chunk.GetBlock(pos), "Ожидался воздух")

	require.NoError(t, chunk.SetBlock(pos, block.StoneBlockID))
	assert.Equal(t, block.StoneBlockID, chunk.GetBlock(pos))
	assert.Equal(t, block.AirBlockID, chunk.GetBlock(vec.UVec3{X: 1, Y: 1, Z: 1}))
}

func TestChunkOutOfRange(t *testing.T) {
	chunk := NewDefaultChunk(vec.Vec3{})
	outside := vec.UVec3{X: DefaultChunkSize, Y: 0, Z: 0}

	// Чтение вне границ возвращает воздух, а не ошибку
	assert.Equal(t, block.AirBlockID, chunk.GetBlock(outside))

	err := chunk.SetBlock(outside, block.StoneBlockID)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.False(t, chunk.HasChanges(), "неудачная запись не должна считаться изменением")
}

func TestChunkInvalidSize(t *testing.T) {
	_, err := NewChunk(vec.Vec3{}, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewChunk(vec.Vec3{}, MaxChunkSize+1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	c, err := NewChunk(vec.Vec3{}, MaxChunkSize)
	require.NoError(t, err)
	assert.Equal(t, MaxChunkSize, c.Size)
}

func TestChunkChanges(t *testing.T) {
	chunk := NewDefaultChunk(vec.Vec3{})
	assert.False(t, chunk.HasChanges(), "Новый чанк не должен иметь изменений")

	require.NoError(t, chunk.SetBlock(vec.UVec3{X: 1, Y: 2, Z: 3}, block.DirtBlockID))
	assert.True(t, chunk.HasChanges())
	assert.Equal(t, 1, chunk.ChangeCounter)

	chunk.ClearChanges()
	assert.False(t, chunk.HasChanges())
}

func TestChunkFullAndRandom(t *testing.T) {
	full, err := Full(vec.Vec3{}, 8, block.StoneBlockID)
	require.NoError(t, err)
	assert.Equal(t, 8*8*8, full.CountSolid())

	rng := rand.New(rand.NewSource(7))
	r, err := Random(vec.Vec3{}, 8, rng, 0.5, block.StoneBlockID)
	require.NoError(t, err)
	solid := r.CountSolid()
	assert.Greater(t, solid, 0)
	assert.Less(t, solid, 8*8*8)
}

func TestChunkRawRoundTrip(t *testing.T) {
	src := NewDefaultChunk(vec.Vec3{})
	require.NoError(t, src.SetBlock(vec.UVec3{X: 31, Y: 0, Z: 7}, block.SandBlockID))

	dst := NewDefaultChunk(vec.Vec3{})
	require.NoError(t, dst.LoadRaw(src.Raw()))
	assert.Equal(t, block.SandBlockID, dst.GetBlock(vec.UVec3{X: 31, Y: 0, Z: 7}))

	assert.ErrorIs(t, dst.LoadRaw(make([]block.BlockID, 3)), ErrInvalidSize)
}
