package pool

import (
	"encoding/binary"
	"fmt"

	"github.com/annel0/voxcore/internal/vec"
)

// HeaderSize - размер заголовка чанка: x, y, z (int32) и число вершин (uint32)
const HeaderSize = 16

// Header - позиционный заголовок, который пишется во второй регион.
// По нему шейдер переводит локальные вершины в мировые координаты.
type Header struct {
	Coords      vec.Vec3
	VertexCount uint32
}

// MarshalBinary кодирует заголовок в little-endian
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, HeaderSize)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(h.Coords.X)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(h.Coords.Y)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(h.Coords.Z)))
	buf = binary.LittleEndian.AppendUint32(buf, h.VertexCount)
	return buf, nil
}

// UnmarshalBinary декодирует заголовок
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("header: got %d bytes, want %d", len(data), HeaderSize)
	}
	h.Coords = vec.Vec3{
		X: int(int32(binary.LittleEndian.Uint32(data[0:]))),
		Y: int(int32(binary.LittleEndian.Uint32(data[4:]))),
		Z: int(int32(binary.LittleEndian.Uint32(data[8:]))),
	}
	h.VertexCount = binary.LittleEndian.Uint32(data[12:])
	return nil
}
