package mesh

import (
	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/world/block"
)

// FaceSet - множество открытых граней одного направления.
// Хранит по маске на столбец (x, y): бит z установлен, если грань блока (x, y, z) видна.
type FaceSet struct {
	size   int
	cols   []uint64        // index = x*N + y
	blocks []block.BlockID // index = (x*N + y)*N + z, валиден только при установленном бите
	count  int
}

// NewFaceSet создаёт пустое множество граней для чанка с ребром size
func NewFaceSet(size int) *FaceSet {
	return &FaceSet{
		size: size,
		cols: make([]uint64, size*size),
	}
}

// Size возвращает длину ребра чанка
func (fs *FaceSet) Size() int { return fs.size }

// Len возвращает число граней в множестве
func (fs *FaceSet) Len() int { return fs.count }

// Mask возвращает маску столбца (x, y)
func (fs *FaceSet) Mask(x, y int) uint64 {
	return fs.cols[x*fs.size+y]
}

func (fs *FaceSet) inBounds(pos vec.UVec3) bool {
	return pos.InBounds(uint32(fs.size))
}

func (fs *FaceSet) col(pos vec.UVec3) int {
	return int(pos.X)*fs.size + int(pos.Y)
}

// Set добавляет грань. Позиции вне чанка игнорируются.
func (fs *FaceSet) Set(pos vec.UVec3, id block.BlockID) bool {
	if !fs.inBounds(pos) {
		return false
	}
	if fs.blocks == nil {
		fs.blocks = make([]block.BlockID, fs.size*fs.size*fs.size)
	}

	c := fs.col(pos)
	bit := uint64(1) << pos.Z
	if fs.cols[c]&bit == 0 {
		fs.count++
	}
	fs.cols[c] |= bit
	fs.blocks[c*fs.size+int(pos.Z)] = id
	return true
}

// Has проверяет наличие грани
func (fs *FaceSet) Has(pos vec.UVec3) bool {
	if !fs.inBounds(pos) {
		return false
	}
	return fs.cols[fs.col(pos)]&(uint64(1)<<pos.Z) != 0
}

// Block возвращает блок, которому принадлежит грань
func (fs *FaceSet) Block(pos vec.UVec3) (block.BlockID, bool) {
	if !fs.Has(pos) {
		return block.AirBlockID, false
	}
	return fs.blocks[fs.col(pos)*fs.size+int(pos.Z)], true
}

// Remove удаляет грань, если она есть
func (fs *FaceSet) Remove(pos vec.UVec3) {
	if !fs.Has(pos) {
		return
	}
	fs.cols[fs.col(pos)] &^= uint64(1) << pos.Z
	fs.count--
}

// matches - грань есть и принадлежит блоку id
func (fs *FaceSet) matches(pos vec.UVec3, id block.BlockID) bool {
	got, ok := fs.Block(pos)
	return ok && got == id
}

// first возвращает лексикографически наименьшую (x, y, z) грань.
// cursor - индекс столбца, с которого продолжать поиск; все столбцы до него пусты.
func (fs *FaceSet) first(cursor *int) (vec.UVec3, bool) {
	for c := *cursor; c < len(fs.cols); c++ {
		m := fs.cols[c]
		if m == 0 {
			continue
		}
		*cursor = c
		return vec.UVec3{
			X: uint32(c / fs.size),
			Y: uint32(c % fs.size),
			Z: uint32(lowestBit(m)),
		}, true
	}
	*cursor = len(fs.cols)
	return vec.UVec3{}, false
}

// Positions возвращает все грани в лексикографическом порядке
func (fs *FaceSet) Positions() []vec.UVec3 {
	out := make([]vec.UVec3, 0, fs.count)
	for c, m := range fs.cols {
		forEachBit(m, func(z int) {
			out = append(out, vec.UVec3{X: uint32(c / fs.size), Y: uint32(c % fs.size), Z: uint32(z)})
		})
	}
	return out
}

// Clone возвращает независимую копию
func (fs *FaceSet) Clone() *FaceSet {
	out := &FaceSet{size: fs.size, count: fs.count, cols: make([]uint64, len(fs.cols))}
	copy(out.cols, fs.cols)
	if fs.blocks != nil {
		out.blocks = make([]block.BlockID, len(fs.blocks))
		copy(out.blocks, fs.blocks)
	}
	return out
}
