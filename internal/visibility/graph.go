package visibility

import (
	"strings"

	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/world"
)

// Graph - симметричная рефлексивная матрица 6×6: Graph[a][b] истинно, если
// пустое пространство у стороны a связано с пустым пространством у стороны b.
// После построения не меняется.
type Graph [NumSides][NumSides]bool

// Identity возвращает граф, где каждая сторона достижима только из себя (полный чанк)
func Identity() *Graph {
	var g Graph
	for i := range g {
		g[i][i] = true
	}
	return &g
}

// Empty возвращает граф пустого чанка: все стороны связаны
func Empty() *Graph {
	var g Graph
	for i := range g {
		for j := range g[i] {
			g[i][j] = true
		}
	}
	return &g
}

// CanReach проверяет, можно ли выйти через сторону b, войдя через сторону a
func (g *Graph) CanReach(a, b Side) bool {
	if a >= NumSides || b >= NumSides {
		return false
	}
	return g[a][b]
}

// Connections возвращает число связанных пар различных сторон
func (g *Graph) Connections() int {
	n := 0
	for i := 0; i < NumSides; i++ {
		for j := i + 1; j < NumSides; j++ {
			if g[i][j] {
				n++
			}
		}
	}
	return n
}

func (g *Graph) connect(sides []Side) {
	for _, a := range sides {
		for _, b := range sides {
			g[a][b] = true
		}
	}
}

func (g *Graph) String() string {
	var sb strings.Builder
	for i, row := range g {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, v := range row {
			if v {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

// FromChunk строит граф видимости заливкой пустого пространства.
//
// Затравки - нетвёрдые клетки на границе чанка в лексикографическом порядке.
// Каждая заливка собирает стороны, которых касается, и связывает их все попарно.
// Клетки, посещённые предыдущей заливкой, повторно не заливаются, поэтому
// изолированные карманы связывают только свои стороны.
func FromChunk(c *world.Chunk) *Graph {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	f := newFiller(c)
	g := Identity()

	n := uint32(c.Size)
	for x := uint32(0); x < n; x++ {
		for y := uint32(0); y < n; y++ {
			for z := uint32(0); z < n; z++ {
				p := vec.UVec3{X: x, Y: y, Z: z}
				if !f.onBoundary(p) {
					continue
				}
				i := f.index(p)
				if f.solid[i] || f.visited[i] {
					continue
				}
				g.connect(f.fill(p))
			}
		}
	}

	return g
}

type filler struct {
	n       uint32
	solid   []bool
	visited []bool
	queue   []vec.UVec3
}

// newFiller снимает маску твёрдости. Вызывающий держит c.Mu.RLock().
func newFiller(c *world.Chunk) *filler {
	n := uint32(c.Size)
	f := &filler{
		n:       n,
		solid:   make([]bool, n*n*n),
		visited: make([]bool, n*n*n),
	}
	for x := uint32(0); x < n; x++ {
		for y := uint32(0); y < n; y++ {
			for z := uint32(0); z < n; z++ {
				p := vec.UVec3{X: x, Y: y, Z: z}
				f.solid[f.index(p)] = c.At(p).IsSolid()
			}
		}
	}
	return f
}

func (f *filler) index(p vec.UVec3) int {
	return int((p.X*f.n+p.Y)*f.n + p.Z)
}

func (f *filler) onBoundary(p vec.UVec3) bool {
	last := f.n - 1
	return p.X == 0 || p.X == last ||
		p.Y == 0 || p.Y == last ||
		p.Z == 0 || p.Z == last
}

// touched отмечает в seen стороны, на которых лежит клетка
func (f *filler) touched(p vec.UVec3, seen *[NumSides]bool) {
	last := f.n - 1
	if p.Z == 0 {
		seen[Front] = true
	}
	if p.Z == last {
		seen[Back] = true
	}
	if p.Y == last {
		seen[Top] = true
	}
	if p.Y == 0 {
		seen[Bottom] = true
	}
	if p.X == last {
		seen[Left] = true
	}
	if p.X == 0 {
		seen[Right] = true
	}
}

// fill обходит в ширину связную область пустых клеток, начиная со start
func (f *filler) fill(start vec.UVec3) []Side {
	var seen [NumSides]bool

	f.queue = append(f.queue[:0], start)
	f.visited[f.index(start)] = true

	for len(f.queue) > 0 {
		p := f.queue[0]
		f.queue = f.queue[1:]

		f.touched(p, &seen)

		for _, axis := range [3]vec.UVec3{vec.UnitX, vec.UnitY, vec.UnitZ} {
			f.visit(p.Add(axis))
			if prev, ok := p.SafeSub(axis); ok {
				f.visit(prev)
			}
		}
	}

	sides := make([]Side, 0, NumSides)
	for _, s := range Sides {
		if seen[s] {
			sides = append(sides, s)
		}
	}
	return sides
}

func (f *filler) visit(p vec.UVec3) {
	if !p.InBounds(f.n) {
		return
	}
	i := f.index(p)
	if f.solid[i] || f.visited[i] {
		return
	}
	f.visited[i] = true
	f.queue = append(f.queue, p)
}
