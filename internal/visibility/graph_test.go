package visibility

import (
	"math/rand"
	"testing"

	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/world"
	"github.com/annel0/voxcore/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splitChunk перегораживает чанк твёрдой плоскостью axis = 3
func splitChunk(t testing.TB, axis int) *world.Chunk {
	c, err := world.NewChunk(vec.Vec3{}, world.DefaultChunkSize)
	require.NoError(t, err)

	n := uint32(c.Size)
	for a := uint32(0); a < n; a++ {
		for b := uint32(0); b < n; b++ {
			var p vec.UVec3
			switch axis {
			case 0:
				p = vec.UVec3{X: 3, Y: a, Z: b}
			case 1:
				p = vec.UVec3{X: a, Y: 3, Z: b}
			default:
				p = vec.UVec3{X: a, Y: b, Z: 3}
			}
			require.NoError(t, c.SetBlock(p, block.StoneBlockID))
		}
	}
	return c
}

func TestFullChunkOnlySelfReachable(t *testing.T) {
	c, err := world.Full(vec.Vec3{}, world.DefaultChunkSize, block.StoneBlockID)
	require.NoError(t, err)

	g := FromChunk(c)
	for _, a := range Sides {
		for _, b := range Sides {
			assert.Equal(t, a == b, g.CanReach(a, b), "%s -> %s", a, b)
		}
	}
	assert.Equal(t, *Identity(), *g)
	assert.Equal(t, 0, g.Connections())
}

func TestEmptyChunkAllReachable(t *testing.T) {
	c, err := world.NewChunk(vec.Vec3{}, world.DefaultChunkSize)
	require.NoError(t, err)

	g := FromChunk(c)
	for _, a := range Sides {
		for _, b := range Sides {
			assert.True(t, g.CanReach(a, b), "%s -> %s", a, b)
		}
	}
	assert.Equal(t, *Empty(), *g)
	assert.Equal(t, 15, g.Connections())
}

func TestSplitChunk(t *testing.T) {
	cases := []struct {
		name string
		axis int
		a, b Side
	}{
		{"split x", 0, Right, Left},
		{"split y", 1, Bottom, Top},
		{"split z", 2, Front, Back},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := FromChunk(splitChunk(t, tc.axis))
			for _, a := range Sides {
				for _, b := range Sides {
					blocked := (a == tc.a && b == tc.b) || (a == tc.b && b == tc.a)
					assert.Equal(t, !blocked, g.CanReach(a, b), "%s -> %s", a, b)
				}
			}
		})
	}
}

func TestTransparentBlocksDoNotBlock(t *testing.T) {
	c, err := world.NewChunk(vec.Vec3{}, 8)
	require.NoError(t, err)
	for y := uint32(0); y < 8; y++ {
		for z := uint32(0); z < 8; z++ {
			require.NoError(t, c.SetBlock(vec.UVec3{X: 3, Y: y, Z: z}, block.GlassBlockID))
		}
	}

	assert.True(t, FromChunk(c).CanReach(Left, Right))
}

func TestIsolatedPocket(t *testing.T) {
	// Полный чанк с пустым тоннелем вдоль Z у нижнего левого ребра
	c, err := world.Full(vec.Vec3{}, 8, block.StoneBlockID)
	require.NoError(t, err)
	for z := uint32(0); z < 8; z++ {
		require.NoError(t, c.SetBlock(vec.UVec3{X: 0, Y: 0, Z: z}, block.AirBlockID))
	}

	g := FromChunk(c)
	// Тоннель касается FRONT, BACK, BOTTOM и RIGHT
	for _, a := range []Side{Front, Back, Bottom, Right} {
		for _, b := range []Side{Front, Back, Bottom, Right} {
			assert.True(t, g.CanReach(a, b), "%s -> %s", a, b)
		}
		assert.False(t, g.CanReach(a, Top))
		assert.False(t, g.CanReach(a, Left))
	}
	assert.Equal(t, 6, g.Connections())
}

func TestSeparatePocketsStaySeparate(t *testing.T) {
	// Два отдельных кармана: у FRONT и у BACK, разделённые камнем
	c, err := world.Full(vec.Vec3{}, 8, block.StoneBlockID)
	require.NoError(t, err)
	require.NoError(t, c.SetBlock(vec.UVec3{X: 4, Y: 4, Z: 0}, block.AirBlockID))
	require.NoError(t, c.SetBlock(vec.UVec3{X: 4, Y: 4, Z: 7}, block.AirBlockID))

	g := FromChunk(c)
	assert.False(t, g.CanReach(Front, Back))
	assert.Equal(t, *Identity(), *g)
}

func TestGraphSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		c, err := world.Random(vec.Vec3{}, 16, rng, 0.55, block.StoneBlockID)
		require.NoError(t, err)

		g := FromChunk(c)
		for _, a := range Sides {
			assert.True(t, g.CanReach(a, a))
			for _, b := range Sides {
				assert.Equal(t, g.CanReach(a, b), g.CanReach(b, a))
			}
		}
	}
}

func TestSingleCellChunk(t *testing.T) {
	c, err := world.NewChunk(vec.Vec3{}, 1)
	require.NoError(t, err)
	assert.Equal(t, *Empty(), *FromChunk(c))

	require.NoError(t, c.SetBlock(vec.UVec3{}, block.StoneBlockID))
	assert.Equal(t, *Identity(), *FromChunk(c))
}

func TestSideHelpers(t *testing.T) {
	for _, s := range Sides {
		assert.Equal(t, s, s.Opposite().Opposite())
		assert.NotEqual(t, s, s.Opposite())

		n, o := s.Normal(), s.Opposite().Normal()
		assert.Equal(t, vec.Vec3{}, n.Add(o), "нормали противоположных сторон")
	}
	assert.Equal(t, "FRONT", Front.String())
	assert.Equal(t, "Side(9)", Side(9).String())
	assert.False(t, Identity().CanReach(Side(9), Front))
}

func BenchmarkGraphRandomChunk(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	c, _ := world.Random(vec.Vec3{}, world.DefaultChunkSize, rng, 0.5, block.StoneBlockID)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = FromChunk(c)
	}
}

func BenchmarkGraphFullChunk(b *testing.B) {
	c, _ := world.Full(vec.Vec3{}, world.DefaultChunkSize, block.StoneBlockID)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = FromChunk(c)
	}
}

func BenchmarkGraphEmptyChunk(b *testing.B) {
	c, _ := world.NewChunk(vec.Vec3{}, world.DefaultChunkSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = FromChunk(c)
	}
}
