package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/annel0/voxcore/internal/world"
	"github.com/annel0/voxcore/internal/world/block"
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

// Формат записи чанка:
//
//	[0]     версия формата
//	[1]     длина ребра N
//	[2:10]  xxhash64 несжатых блоков
//	[10:]   zstd(N^3 блоков, uint16 little-endian, порядок (x*N+y)*N+z)
const (
	recordVersion    = 1
	recordHeaderSize = 10
)

var ErrCorruptRecord = errors.New("corrupt chunk record")

// codec сжимает и проверяет записи чанков. Энкодер и декодер zstd
// безопасны для конкурентного EncodeAll/DecodeAll.
type codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCodec() (*codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("создание zstd энкодера: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("создание zstd декодера: %w", err)
	}
	return &codec{enc: enc, dec: dec}, nil
}

func (c *codec) close() {
	c.enc.Close()
	c.dec.Close()
}

func blocksToBytes(blocks []block.BlockID) []byte {
	raw := make([]byte, 0, len(blocks)*2)
	for _, id := range blocks {
		raw = binary.LittleEndian.AppendUint16(raw, uint16(id))
	}
	return raw
}

func (c *codec) encode(ch *world.Chunk) []byte {
	raw := blocksToBytes(ch.Raw())

	out := make([]byte, recordHeaderSize, recordHeaderSize+len(raw)/4)
	out[0] = recordVersion
	out[1] = byte(ch.Size)
	binary.LittleEndian.PutUint64(out[2:], xxhash.Sum64(raw))
	return c.enc.EncodeAll(raw, out)
}

// decode возвращает размер чанка и блоки
func (c *codec) decode(data []byte) (int, []block.BlockID, error) {
	if len(data) < recordHeaderSize {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrCorruptRecord, len(data))
	}
	if data[0] != recordVersion {
		return 0, nil, fmt.Errorf("%w: unknown version %d", ErrCorruptRecord, data[0])
	}

	size := int(data[1])
	if size < 1 || size > world.MaxChunkSize {
		return 0, nil, fmt.Errorf("%w: chunk size %d", ErrCorruptRecord, size)
	}

	raw, err := c.dec.DecodeAll(data[recordHeaderSize:], nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if len(raw) != size*size*size*2 {
		return 0, nil, fmt.Errorf("%w: %d bytes of blocks for size %d", ErrCorruptRecord, len(raw), size)
	}
	if sum := binary.LittleEndian.Uint64(data[2:]); sum != xxhash.Sum64(raw) {
		return 0, nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptRecord)
	}

	blocks := make([]block.BlockID, len(raw)/2)
	for i := range blocks {
		blocks[i] = block.BlockID(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return size, blocks, nil
}
