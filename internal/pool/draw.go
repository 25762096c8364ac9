package pool

import (
	"github.com/annel0/voxcore/internal/mesh"
	"github.com/annel0/voxcore/internal/vec"
)

// DrawArgs - аргументы одного косвенного вызова отрисовки
type DrawArgs struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32 // индекс заголовка чанка
}

// DrawList строит список косвенных вызовов: по одному на непустое
// направление граней каждого чанка, прошедшего фильтр visible.
// Отсечение по пирамиде видимости делает вызывающий; nil пропускает все чанки.
func (p *Pool) DrawList(visible func(vec.Vec3) bool) []DrawArgs {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []DrawArgs
	for _, pos := range p.sortedKeys() {
		if visible != nil && !visible(pos) {
			continue
		}
		info := p.lookup[pos]
		base := uint32(info.VertexOffset / mesh.BytesPerVertex)
		for _, face := range info.Faces {
			if face.Count == 0 {
				continue
			}
			out = append(out, DrawArgs{
				VertexCount:   face.Count,
				InstanceCount: 1,
				FirstVertex:   base + face.First,
				FirstInstance: uint32(info.HeaderOffset / HeaderSize),
			})
		}
	}
	return out
}
