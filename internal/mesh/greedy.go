package mesh

import (
	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/world/block"
)

// Quad - прямоугольник из слитых граней одного блока.
// Min и Max - противоположные углы в координатах клеток, включительно.
type Quad struct {
	Dir   Direction
	Block block.BlockID
	Min   vec.UVec3
	Max   vec.UVec3
}

// Area возвращает число граней, покрытых квадом
func (q Quad) Area() int {
	return int(q.Max.X-q.Min.X+1) * int(q.Max.Y-q.Min.Y+1) * int(q.Max.Z-q.Min.Z+1)
}

// Contains проверяет, покрывает ли квад клетку pos
func (q Quad) Contains(pos vec.UVec3) bool {
	return pos.X >= q.Min.X && pos.X <= q.Max.X &&
		pos.Y >= q.Min.Y && pos.Y <= q.Max.Y &&
		pos.Z >= q.Min.Z && pos.Z <= q.Max.Z
}

// GreedyMerge сливает грани одного направления в квады, поглощая fs.
// Результат не минимален: это жадное покрытие без перекрытий.
//
// Затравка всегда лексикографически наименьшая оставшаяся грань, поэтому
// результат воспроизводим. От затравки полоса растёт по первой оси роста
// в обе стороны, затем полоса целиком растёт рядами по второй оси.
// Ряд принимается только если совпадают все его клетки.
func GreedyMerge(fs *FaceSet, dir Direction) []Quad {
	var quads []Quad
	i, j := dir.GrowthAxes()

	cursor := 0
	for fs.Len() > 0 {
		seed, ok := fs.first(&cursor)
		if !ok {
			break
		}
		id, _ := fs.Block(seed)
		fs.Remove(seed)

		lo, hi := seed, seed

		// полоса вперёд
		for {
			next := hi.Add(i)
			if !fs.matches(next, id) {
				break
			}
			fs.Remove(next)
			hi = next
		}

		// полоса назад
		for {
			prev, ok := lo.SafeSub(i)
			if !ok || !fs.matches(prev, id) {
				break
			}
			fs.Remove(prev)
			lo = prev
		}

		length := hi.Dot(i) - lo.Dot(i) + 1

		// ряды назад
		for {
			row, ok := lo.SafeSub(j)
			if !ok || !rowMatches(fs, row, i, length, id) {
				break
			}
			removeRow(fs, row, i, length)
			lo = row
		}

		// ряды вперёд
		for {
			span := hi.Dot(j) - lo.Dot(j) + 1
			row := lo.Add(j.Scale(span))
			if !rowMatches(fs, row, i, length, id) {
				break
			}
			removeRow(fs, row, i, length)
			hi = hi.Add(j)
		}

		quads = append(quads, Quad{Dir: dir, Block: id, Min: lo, Max: hi})
	}

	return quads
}

func rowMatches(fs *FaceSet, start, axis vec.UVec3, length uint32, id block.BlockID) bool {
	for l := uint32(0); l < length; l++ {
		if !fs.matches(start.Add(axis.Scale(l)), id) {
			return false
		}
	}
	return true
}

func removeRow(fs *FaceSet, start, axis vec.UVec3, length uint32) {
	for l := uint32(0); l < length; l++ {
		fs.Remove(start.Add(axis.Scale(l)))
	}
}
