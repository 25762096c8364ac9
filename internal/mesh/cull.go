package mesh

import (
	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/world"
)

// Cull находит открытые грани чанка по всем шести направлениям.
// Грань открыта, если с одной стороны твёрдый блок, а с другой - пустота
// или граница чанка: грани на границе всегда видны, соседние чанки не учитываются.
func Cull(c *world.Chunk) [NumDirections]*FaceSet {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	n := c.Size
	var out [NumDirections]*FaceSet
	for i := range out {
		out[i] = NewFaceSet(n)
	}

	// Бинарное представление: t[x*n+y] бит z - твёрдый блок
	t := solidColumns(c)
	full := columnMask(n)

	column := func(x, y int) uint64 {
		if x < 0 || x >= n || y < 0 || y >= n {
			return 0
		}
		return t[x*n+y]
	}

	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col := t[x*n+y]
			if col == 0 {
				continue
			}

			// Z: сосед - соседний бит в том же столбце
			addFaces(c, out[DirNegZ], x, y, col&^(col<<1)&full)
			addFaces(c, out[DirPosZ], x, y, col&^(col>>1)&full)

			// Y: соседний столбец по y
			addFaces(c, out[DirPosY], x, y, col&^column(x, y+1))
			addFaces(c, out[DirNegY], x, y, col&^column(x, y-1))

			// X: соседний столбец по x
			addFaces(c, out[DirPosX], x, y, col&^column(x+1, y))
			addFaces(c, out[DirNegX], x, y, col&^column(x-1, y))
		}
	}

	return out
}

// solidColumns строит маски твёрдости по столбцам. Вызывающий держит c.Mu.RLock().
func solidColumns(c *world.Chunk) []uint64 {
	n := c.Size
	t := make([]uint64, n*n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			var col uint64
			for z := 0; z < n; z++ {
				if c.At(vec.UVec3{X: uint32(x), Y: uint32(y), Z: uint32(z)}).IsSolid() {
					col |= uint64(1) << z
				}
			}
			t[x*n+y] = col
		}
	}
	return t
}

// addFaces раскладывает маску открытых граней столбца в отдельные позиции
func addFaces(c *world.Chunk, fs *FaceSet, x, y int, faces uint64) {
	forEachBit(faces, func(z int) {
		pos := vec.UVec3{X: uint32(x), Y: uint32(y), Z: uint32(z)}
		fs.Set(pos, c.At(pos))
	})
}
