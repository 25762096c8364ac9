package world

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/world/block"
)

const (
	// DefaultChunkSize - длина ребра чанка по умолчанию
	DefaultChunkSize = 32
	// MaxChunkSize ограничен шириной маски столбца (uint64)
	MaxChunkSize = 64
)

var (
	ErrInvalidSize = errors.New("invalid chunk size")
	ErrOutOfBounds = errors.New("position out of chunk bounds")
)

// Chunk представляет кубический участок мира N×N×N блоков.
// Блоки хранятся плотным массивом, отсутствующие позиции - воздух.
type Chunk struct {
	Coords vec.Vec3 // Координаты чанка в мире
	Size   int      // Длина ребра N

	blocks []block.BlockID // index = (x*N + y)*N + z

	ChangeCounter int          // Счетчик изменений
	Mu            sync.RWMutex // Мьютекс для безопасного доступа
}

// NewChunk создаёт пустой чанк с ребром size
func NewChunk(coords vec.Vec3, size int) (*Chunk, error) {
	if size < 1 || size > MaxChunkSize {
		return nil, fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidSize, size, MaxChunkSize)
	}

	return &Chunk{
		Coords: coords,
		Size:   size,
		blocks: make([]block.BlockID, size*size*size),
	}, nil
}

// NewDefaultChunk создаёт пустой чанк размера DefaultChunkSize
func NewDefaultChunk(coords vec.Vec3) *Chunk {
	c, _ := NewChunk(coords, DefaultChunkSize)
	return c
}

// Full создаёт чанк, целиком заполненный блоком id
func Full(coords vec.Vec3, size int, id block.BlockID) (*Chunk, error) {
	c, err := NewChunk(coords, size)
	if err != nil {
		return nil, err
	}
	for i := range c.blocks {
		c.blocks[i] = id
	}
	return c, nil
}

// Random создаёт чанк, в котором каждая позиция с вероятностью density
// занята блоком id. Используется тестами и бенчмарками.
func Random(coords vec.Vec3, size int, rng *rand.Rand, density float64, id block.BlockID) (*Chunk, error) {
	c, err := NewChunk(coords, size)
	if err != nil {
		return nil, err
	}
	for i := range c.blocks {
		if rng.Float64() < density {
			c.blocks[i] = id
		}
	}
	return c, nil
}

func (c *Chunk) index(pos vec.UVec3) int {
	n := c.Size
	return (int(pos.X)*n+int(pos.Y))*n + int(pos.Z)
}

// InBounds проверяет, лежит ли позиция внутри чанка
func (c *Chunk) InBounds(pos vec.UVec3) bool {
	return pos.InBounds(uint32(c.Size))
}

// At возвращает блок без блокировки. Вызывающий должен держать Mu.RLock().
// Позиции вне чанка читаются как воздух.
func (c *Chunk) At(pos vec.UVec3) block.BlockID {
	if !c.InBounds(pos) {
		return block.AirBlockID
	}
	return c.blocks[c.index(pos)]
}

// GetBlock возвращает ID блока по локальным координатам
func (c *Chunk) GetBlock(pos vec.UVec3) block.BlockID {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.At(pos)
}

// SetBlock устанавливает блок по локальным координатам
func (c *Chunk) SetBlock(pos vec.UVec3, id block.BlockID) error {
	if !c.InBounds(pos) {
		return fmt.Errorf("%w: %s in chunk of size %d", ErrOutOfBounds, pos, c.Size)
	}

	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.blocks[c.index(pos)] = id
	c.ChangeCounter++
	return nil
}

// HasChanges возвращает true, если в чанке есть изменения
func (c *Chunk) HasChanges() bool {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	return c.ChangeCounter > 0
}

// ClearChanges сбрасывает счетчик изменений
func (c *Chunk) ClearChanges() {
	c.Mu.Lock()
	defer c.Mu.Unlock()

	c.ChangeCounter = 0
}

// Raw возвращает копию плотного массива блоков
func (c *Chunk) Raw() []block.BlockID {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	out := make([]block.BlockID, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// LoadRaw заменяет содержимое чанка. Длина data должна быть N^3.
func (c *Chunk) LoadRaw(data []block.BlockID) error {
	if len(data) != len(c.blocks) {
		return fmt.Errorf("%w: got %d blocks, want %d", ErrInvalidSize, len(data), len(c.blocks))
	}

	c.Mu.Lock()
	defer c.Mu.Unlock()

	copy(c.blocks, data)
	return nil
}

// CountSolid возвращает число твёрдых блоков
func (c *Chunk) CountSolid() int {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	count := 0
	for _, id := range c.blocks {
		if id.IsSolid() {
			count++
		}
	}
	return count
}
