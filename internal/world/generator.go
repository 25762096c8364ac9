package world

import (
	"context"

	"github.com/annel0/voxcore/internal/util"
	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/world/block"
)

// Значения по умолчанию для генерации
const (
	DefaultNoiseScale    = 0.02
	DefaultCaveScale     = 0.08
	DefaultCaveThreshold = 0.72
	DefaultBaseHeight    = 16
	DefaultHeightRange   = 48
	DefaultSeaLevel      = 20
)

// Generator генерирует ландшафт: карта высот по 2D-шуму и пещеры по 3D-шуму.
// Реализует источник чанков для пула геометрии.
type Generator struct {
	Seed          int64
	ChunkSize     int
	NoiseScale    float64 // Масштаб шума высот
	CaveScale     float64 // Масштаб шума пещер
	CaveThreshold float64 // Выше порога - пустота
	BaseHeight    int     // Минимальная высота поверхности
	HeightRange   int     // Разброс высот
	SeaLevel      int     // Ниже - вода над поверхностью

	height *util.Noise
	caves  *util.Noise
}

// NewGenerator создаёт генератор мира
func NewGenerator(seed int64, chunkSize int) *Generator {
	return &Generator{
		Seed:          seed,
		ChunkSize:     chunkSize,
		NoiseScale:    DefaultNoiseScale,
		CaveScale:     DefaultCaveScale,
		CaveThreshold: DefaultCaveThreshold,
		BaseHeight:    DefaultBaseHeight,
		HeightRange:   DefaultHeightRange,
		SeaLevel:      DefaultSeaLevel,
		height:        util.NewNoise(seed),
		caves:         util.NewNoise(seed + 42),
	}
}

// Chunk генерирует чанк по его координатам
func (g *Generator) Chunk(ctx context.Context, coords vec.Vec3) (*Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.GenerateChunk(coords)
}

// GenerateChunk заполняет чанк блоками
func (g *Generator) GenerateChunk(coords vec.Vec3) (*Chunk, error) {
	chunk, err := NewChunk(coords, g.ChunkSize)
	if err != nil {
		return nil, err
	}

	n := g.ChunkSize
	startX := coords.X * n
	startY := coords.Y * n
	startZ := coords.Z * n

	for x := 0; x < n; x++ {
		for z := 0; z < n; z++ {
			globalX := startX + x
			globalZ := startZ + z

			surface := g.SurfaceHeight(globalX, globalZ)

			for y := 0; y < n; y++ {
				globalY := startY + y

				id := g.blockAt(globalX, globalY, globalZ, surface)
				if id == block.AirBlockID {
					continue
				}
				chunk.blocks[chunk.index(vec.UVec3{X: uint32(x), Y: uint32(y), Z: uint32(z)})] = id
			}
		}
	}

	return chunk, nil
}

// SurfaceHeight возвращает высоту поверхности в мировых координатах
func (g *Generator) SurfaceHeight(globalX, globalZ int) int {
	h := g.height.Noise2D(float64(globalX)*g.NoiseScale, float64(globalZ)*g.NoiseScale)
	return g.BaseHeight + int(h*float64(g.HeightRange))
}

// blockAt выбирает блок для мировой позиции
func (g *Generator) blockAt(x, y, z, surface int) block.BlockID {
	if y > surface {
		if y <= g.SeaLevel {
			return block.WaterBlockID
		}
		return block.AirBlockID
	}

	// Пещеры не прорезают поверхность, чтобы не было дыр под водой
	if y < surface-2 {
		cave := g.caves.Noise3D(float64(x)*g.CaveScale, float64(y)*g.CaveScale, float64(z)*g.CaveScale)
		if cave > g.CaveThreshold {
			return block.AirBlockID
		}
	}

	switch {
	case y == surface && surface <= g.SeaLevel+1:
		return block.SandBlockID
	case y == surface:
		return block.GrassBlockID
	case y > surface-4:
		return block.DirtBlockID
	default:
		return block.StoneBlockID
	}
}
