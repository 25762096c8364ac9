package mesh

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	ErrCoordinateOverflow = errors.New("vertex coordinate does not fit the field width")
	ErrEncodingTooWide    = errors.New("chunk size needs more than 32 bits per vertex")
	ErrInvalidDirection   = errors.New("invalid face direction")
)

// EncodedVertex упаковывает (x, y, z) в одно число: x<<2w | y<<w | z
type EncodedVertex uint32

// VerticesPerQuad - два треугольника на квад
const VerticesPerQuad = 6

// Encoder упаковывает углы квадов. Ширина поля w = ceil(log2(N+1)):
// вершины лежат в [0, N] включительно, поэтому N требует лишний бит.
type Encoder struct {
	size  int
	width uint
	mask  uint32
}

// NewEncoder создаёт кодировщик для чанка с ребром size
func NewEncoder(size int) (*Encoder, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: size %d", ErrEncodingTooWide, size)
	}
	width := uint(bits.Len(uint(size)))
	if 3*width > 32 {
		return nil, fmt.Errorf("%w: size %d needs %d bits per axis", ErrEncodingTooWide, size, width)
	}
	return &Encoder{
		size:  size,
		width: width,
		mask:  uint32(1)<<width - 1,
	}, nil
}

// Width возвращает ширину поля одной координаты в битах
func (e *Encoder) Width() uint { return e.width }

// Size возвращает длину ребра чанка
func (e *Encoder) Size() int { return e.size }

// Encode упаковывает координаты. Значение, не влезающее в поле, - ошибка,
// а не молчаливое обрезание бит.
func (e *Encoder) Encode(x, y, z uint32) (EncodedVertex, error) {
	if x > e.mask || y > e.mask || z > e.mask {
		return 0, fmt.Errorf("%w: (%d,%d,%d) with %d-bit fields", ErrCoordinateOverflow, x, y, z, e.width)
	}
	v := x
	v = v<<e.width | y
	v = v<<e.width | z
	return EncodedVertex(v), nil
}

// Decode распаковывает вершину
func (e *Encoder) Decode(v EncodedVertex) (x, y, z uint32) {
	t := uint32(v)
	z = t & e.mask
	t >>= e.width
	y = t & e.mask
	t >>= e.width
	x = t & e.mask
	return x, y, z
}

// QuadVertices возвращает шесть вершин (два треугольника) квада.
// Углы квада заданы клетками, а внешний край грани лежит на единицу дальше
// своей клетки, поэтому границы берутся как min(c1, c2+1) и max(c1, c2+1).
func (e *Encoder) QuadVertices(q Quad) ([VerticesPerQuad]EncodedVertex, error) {
	var out [VerticesPerQuad]EncodedVertex

	minX, maxX := min(q.Min.X, q.Max.X+1), max(q.Min.X, q.Max.X+1)
	minY, maxY := min(q.Min.Y, q.Max.Y+1), max(q.Min.Y, q.Max.Y+1)
	minZ, maxZ := min(q.Min.Z, q.Max.Z+1), max(q.Min.Z, q.Max.Z+1)

	var corners [VerticesPerQuad][3]uint32
	switch q.Dir {
	case DirPosX:
		corners = [VerticesPerQuad][3]uint32{
			{maxX, minY, minZ}, {maxX, maxY, minZ}, {maxX, maxY, maxZ},
			{maxX, minY, minZ}, {maxX, maxY, maxZ}, {maxX, minY, maxZ},
		}
	case DirNegX:
		corners = [VerticesPerQuad][3]uint32{
			{minX, minY, minZ}, {minX, maxY, minZ}, {minX, maxY, maxZ},
			{minX, minY, minZ}, {minX, maxY, maxZ}, {minX, minY, maxZ},
		}
	case DirPosY:
		corners = [VerticesPerQuad][3]uint32{
			{minX, maxY, minZ}, {maxX, maxY, minZ}, {maxX, maxY, maxZ},
			{minX, maxY, minZ}, {maxX, maxY, maxZ}, {minX, maxY, maxZ},
		}
	case DirNegY:
		corners = [VerticesPerQuad][3]uint32{
			{minX, minY, minZ}, {maxX, minY, minZ}, {maxX, minY, maxZ},
			{minX, minY, minZ}, {maxX, minY, maxZ}, {minX, minY, maxZ},
		}
	case DirPosZ:
		corners = [VerticesPerQuad][3]uint32{
			{minX, minY, maxZ}, {maxX, minY, maxZ}, {maxX, maxY, maxZ},
			{minX, minY, maxZ}, {maxX, maxY, maxZ}, {minX, maxY, maxZ},
		}
	case DirNegZ:
		corners = [VerticesPerQuad][3]uint32{
			{minX, minY, minZ}, {maxX, minY, minZ}, {maxX, maxY, minZ},
			{minX, minY, minZ}, {maxX, maxY, minZ}, {minX, maxY, minZ},
		}
	default:
		return out, fmt.Errorf("%w: %d", ErrInvalidDirection, q.Dir)
	}

	for k, c := range corners {
		v, err := e.Encode(c[0], c[1], c[2])
		if err != nil {
			return out, err
		}
		out[k] = v
	}
	return out, nil
}
