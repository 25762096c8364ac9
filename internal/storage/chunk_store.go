package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/annel0/voxcore/internal/logging"
	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/world"
	"github.com/dgraph-io/badger/v3"
)

var ErrNotReady = errors.New("хранилище не готово")

// Fallback поставляет чанки, которых нет в хранилище (обычно генератор)
type Fallback interface {
	Chunk(ctx context.Context, pos vec.Vec3) (*world.Chunk, error)
}

// ChunkStore хранит изменённые чанки в BadgerDB.
// Несохранённые чанки берутся у fallback, поэтому хранилище само служит
// источником чанков для пула.
type ChunkStore struct {
	db        *badger.DB
	dbPath    string
	codec     *codec
	chunkSize int
	fallback  Fallback
	logger    *logging.Logger

	mutex   sync.RWMutex
	isReady bool
}

// NewChunkStore открывает хранилище в dataPath/chunks.
// chunkSize - размер пустых чанков, которые отдаются без fallback.
func NewChunkStore(dataPath string, chunkSize int, fallback Fallback, logger *logging.Logger) (*ChunkStore, error) {
	dbPath := filepath.Join(dataPath, "chunks")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	c, err := newCodec()
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ChunkStore{
		db:        db,
		dbPath:    dbPath,
		codec:     c,
		chunkSize: chunkSize,
		fallback:  fallback,
		logger:    logger,
		isReady:   true,
	}, nil
}

func chunkKey(coords vec.Vec3) []byte {
	return []byte(fmt.Sprintf("chunk:%d:%d:%d", coords.X, coords.Y, coords.Z))
}

// Close закрывает хранилище
func (s *ChunkStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}

	s.isReady = false
	s.codec.close()
	return s.db.Close()
}

// SaveChunk сохраняет чанк, если в нём есть изменения, и сбрасывает счётчик
func (s *ChunkStore) SaveChunk(chunk *world.Chunk) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrNotReady
	}

	if !chunk.HasChanges() {
		return nil
	}

	data := s.codec.encode(chunk)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(chunk.Coords), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	chunk.ClearChanges()
	s.logger.Debug("Чанк %s сохранён (%d байт)", chunk.Coords, len(data))
	return nil
}

// LoadChunk читает чанк. Если записи нет, возвращает (nil, false, nil).
func (s *ChunkStore) LoadChunk(coords vec.Vec3) (*world.Chunk, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, false, ErrNotReady
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(coords))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	size, blocks, err := s.codec.decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("чанк %s: %w", coords, err)
	}

	chunk, err := world.NewChunk(coords, size)
	if err != nil {
		return nil, false, err
	}
	if err := chunk.LoadRaw(blocks); err != nil {
		return nil, false, err
	}
	return chunk, true, nil
}

// DeleteChunk удаляет запись чанка
func (s *ChunkStore) DeleteChunk(coords vec.Vec3) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrNotReady
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(chunkKey(coords))
	})
}

// Chunk возвращает сохранённый чанк или, если его нет, чанк от fallback.
// Без fallback несохранённый чанк считается пустым.
func (s *ChunkStore) Chunk(ctx context.Context, coords vec.Vec3) (*world.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chunk, ok, err := s.LoadChunk(coords)
	if err != nil {
		return nil, err
	}
	if ok {
		return chunk, nil
	}

	if s.fallback == nil {
		return world.NewChunk(coords, s.chunkSize)
	}
	return s.fallback.Chunk(ctx, coords)
}

// Count возвращает число сохранённых чанков
func (s *ChunkStore) Count() (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return 0, ErrNotReady
	}

	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte("chunk:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
