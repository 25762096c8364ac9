package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/annel0/voxcore/internal/logging"
	"github.com/annel0/voxcore/internal/world"
)

// ErrSizeMismatch - чанк другого размера, чем тот, под который создан Mesher
var ErrSizeMismatch = errors.New("chunk size does not match mesher")

// BytesPerVertex - размер закодированной вершины в буфере
const BytesPerVertex = 4

// Mesh - закодированные вершины, разбитые по направлениям граней
type Mesh [NumDirections][]EncodedVertex

// FaceRange - диапазон вершин одного направления внутри меша
type FaceRange struct {
	First uint32
	Count uint32
}

// VertexCount возвращает общее число вершин
func (m *Mesh) VertexCount() int {
	total := 0
	for _, verts := range m {
		total += len(verts)
	}
	return total
}

// ByteLen возвращает размер меша в буфере
func (m *Mesh) ByteLen() int {
	return m.VertexCount() * BytesPerVertex
}

// Ranges возвращает диапазоны вершин по направлениям в порядке тегов
func (m *Mesh) Ranges() [NumDirections]FaceRange {
	var out [NumDirections]FaceRange
	var offset uint32
	for d, verts := range m {
		out[d] = FaceRange{First: offset, Count: uint32(len(verts))}
		offset += uint32(len(verts))
	}
	return out
}

// Bytes сериализует вершины подряд (little-endian uint32) в порядке направлений
func (m *Mesh) Bytes() []byte {
	buf := make([]byte, 0, m.ByteLen())
	for _, verts := range m {
		for _, v := range verts {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		}
	}
	return buf
}

// BuildQuads отсекает скрытые грани и жадно сливает оставшиеся.
// Чистая функция над снимком чанка: можно вызывать параллельно.
func BuildQuads(c *world.Chunk) [NumDirections][]Quad {
	cullStart := time.Now()
	faces := Cull(c)
	logging.Debug("Culling quads took %dus", time.Since(cullStart).Microseconds())

	mergeStart := time.Now()
	var out [NumDirections][]Quad
	for _, d := range Directions {
		n := faces[d].Len()
		out[d] = GreedyMerge(faces[d], d)
		logging.Trace("%s: %d граней -> %d квадов", d, n, len(out[d]))
	}
	logging.Debug("Merging quads took %dus", time.Since(mergeStart).Microseconds())

	return out
}

// Mesher строит закодированные меши чанков фиксированного размера
type Mesher struct {
	encoder *Encoder
}

// NewMesher создаёт Mesher для чанков с ребром size
func NewMesher(size int) (*Mesher, error) {
	enc, err := NewEncoder(size)
	if err != nil {
		return nil, err
	}
	return &Mesher{encoder: enc}, nil
}

// Encoder возвращает кодировщик вершин
func (m *Mesher) Encoder() *Encoder { return m.encoder }

// Quads возвращает квады чанка по направлениям
func (m *Mesher) Quads(c *world.Chunk) ([NumDirections][]Quad, error) {
	if c.Size != m.encoder.Size() {
		return [NumDirections][]Quad{}, fmt.Errorf("%w: chunk %d, mesher %d", ErrSizeMismatch, c.Size, m.encoder.Size())
	}
	return BuildQuads(c), nil
}

// Mesh строит меш чанка
func (m *Mesher) Mesh(c *world.Chunk) (Mesh, error) {
	quads, err := m.Quads(c)
	if err != nil {
		return Mesh{}, err
	}
	return m.Encode(quads)
}

// Encode кодирует готовые квады в вершины
func (m *Mesher) Encode(quads [NumDirections][]Quad) (Mesh, error) {
	var out Mesh
	for d, qs := range quads {
		verts := make([]EncodedVertex, 0, len(qs)*VerticesPerQuad)
		for _, q := range qs {
			v, err := m.encoder.QuadVertices(q)
			if err != nil {
				return Mesh{}, fmt.Errorf("encode %s quad %s-%s: %w", Direction(d), q.Min, q.Max, err)
			}
			verts = append(verts, v[:]...)
		}
		out[d] = verts
	}
	return out, nil
}
