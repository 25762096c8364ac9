package storage

import (
	"context"
	"testing"

	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/world"
	"github.com/annel0/voxcore/internal/world/block"
	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T, fallback Fallback) *ChunkStore {
	t.Helper()

	store, err := NewChunkStore(t.TempDir(), 8, fallback, nil)
	if err != nil {
		t.Fatalf("Не удалось создать хранилище: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadChunk(t *testing.T) {
	store := setupTestStore(t, nil)

	coords := vec.Vec3{X: 10, Y: -3, Z: 20}
	chunk, err := world.NewChunk(coords, 8)
	require.NoError(t, err)
	require.NoError(t, chunk.SetBlock(vec.UVec3{X: 5, Y: 5, Z: 1}, block.WaterBlockID))
	require.NoError(t, chunk.SetBlock(vec.UVec3{X: 7, Y: 0, Z: 7}, block.GlassBlockID))

	require.NoError(t, store.SaveChunk(chunk))
	assert.False(t, chunk.HasChanges(), "после сохранения изменения сброшены")

	loaded, ok, err := store.LoadChunk(coords)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, coords, loaded.Coords)
	assert.Equal(t, 8, loaded.Size)
	assert.Equal(t, chunk.Raw(), loaded.Raw())
	assert.False(t, loaded.HasChanges())
}

func TestSaveSkipsUnchangedChunk(t *testing.T) {
	store := setupTestStore(t, nil)

	chunk, err := world.Full(vec.Vec3{}, 8, block.StoneBlockID)
	require.NoError(t, err)
	require.NoError(t, store.SaveChunk(chunk))

	_, ok, err := store.LoadChunk(vec.Vec3{})
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLoadMissingChunk(t *testing.T) {
	store := setupTestStore(t, nil)

	chunk, ok, err := store.LoadChunk(vec.Vec3{X: 1, Y: 2, Z: 3})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, chunk)
}

func TestChunkUsesFallback(t *testing.T) {
	gen := world.NewGenerator(7, 8)
	store := setupTestStore(t, gen)
	ctx := context.Background()

	coords := vec.Vec3{X: 0, Y: 2, Z: 0}
	fromStore, err := store.Chunk(ctx, coords)
	require.NoError(t, err)
	generated, err := gen.GenerateChunk(coords)
	require.NoError(t, err)
	assert.Equal(t, generated.Raw(), fromStore.Raw())

	// Сохранённая версия имеет приоритет над генератором
	require.NoError(t, fromStore.SetBlock(vec.UVec3{X: 1, Y: 1, Z: 1}, block.LeavesBlockID))
	require.NoError(t, store.SaveChunk(fromStore))

	again, err := store.Chunk(ctx, coords)
	require.NoError(t, err)
	assert.Equal(t, block.LeavesBlockID, again.GetBlock(vec.UVec3{X: 1, Y: 1, Z: 1}))
}

func TestChunkWithoutFallbackIsEmpty(t *testing.T) {
	store := setupTestStore(t, nil)

	chunk, err := store.Chunk(context.Background(), vec.Vec3{X: 4})
	require.NoError(t, err)
	assert.Equal(t, 8, chunk.Size)
	assert.Equal(t, 0, chunk.CountSolid())
}

func TestChunkCancelledContext(t *testing.T) {
	store := setupTestStore(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Chunk(ctx, vec.Vec3{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeleteChunk(t *testing.T) {
	store := setupTestStore(t, nil)

	chunk, err := world.NewChunk(vec.Vec3{Z: 9}, 8)
	require.NoError(t, err)
	require.NoError(t, chunk.SetBlock(vec.UVec3{}, block.StoneBlockID))
	require.NoError(t, store.SaveChunk(chunk))

	require.NoError(t, store.DeleteChunk(vec.Vec3{Z: 9}))
	_, ok, err := store.LoadChunk(vec.Vec3{Z: 9})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptRecordDetected(t *testing.T) {
	store := setupTestStore(t, nil)

	chunk, err := world.NewChunk(vec.Vec3{}, 8)
	require.NoError(t, err)
	require.NoError(t, chunk.SetBlock(vec.UVec3{X: 2}, block.DirtBlockID))

	data := store.codec.encode(chunk)
	data[2] ^= 0xFF // портим контрольную сумму
	require.NoError(t, store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(vec.Vec3{}), data)
	}))

	_, _, err = store.LoadChunk(vec.Vec3{})
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestClosedStore(t *testing.T) {
	store := setupTestStore(t, nil)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "повторное закрытие безопасно")

	_, _, err := store.LoadChunk(vec.Vec3{})
	assert.ErrorIs(t, err, ErrNotReady)
}
