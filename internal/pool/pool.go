// Package pool размещает геометрию чанков в двух регионах фиксированной
// ёмкости (вершины и заголовки) и хранит для каждого чанка сведения для отрисовки.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/annel0/voxcore/internal/allocator"
	"github.com/annel0/voxcore/internal/logging"
	"github.com/annel0/voxcore/internal/mesh"
	"github.com/annel0/voxcore/internal/metrics"
	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/visibility"
	"github.com/annel0/voxcore/internal/world"
	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNotLoaded     = errors.New("chunk is not loaded")
	ErrInvalidConfig = errors.New("invalid pool config")
)

// Source поставляет чанки по координатам (генератор, хранилище)
type Source interface {
	Chunk(ctx context.Context, pos vec.Vec3) (*world.Chunk, error)
}

// DrawInfo - всё, что нужно для отрисовки размещённого чанка
type DrawInfo struct {
	Coords       vec.Vec3
	VertexOffset uint64 // в байтах
	VertexBytes  uint64
	HeaderOffset uint64 // в байтах
	Faces        [mesh.NumDirections]mesh.FaceRange
	Visibility   *visibility.Graph
	Checksum     uint64 // xxhash закодированных вершин
}

// VertexCount возвращает общее число вершин чанка
func (d *DrawInfo) VertexCount() uint32 {
	return uint32(d.VertexBytes / mesh.BytesPerVertex)
}

// Options - параметры пула
type Options struct {
	ChunkSize      int
	VertexCapacity uint64 // байт
	HeaderCapacity uint64 // байт
	LoadRadius     int
	Workers        int

	Metrics *metrics.PoolMetrics // nil - метрики не экспортируются
	Logger  *logging.Logger      // nil - глобальный логгер
}

// Validate проверяет параметры
func (o Options) Validate() error {
	switch {
	case o.ChunkSize < 1 || o.ChunkSize > world.MaxChunkSize:
		return fmt.Errorf("%w: chunk size %d", ErrInvalidConfig, o.ChunkSize)
	case o.VertexCapacity == 0 || o.HeaderCapacity < HeaderSize:
		return fmt.Errorf("%w: capacities %d/%d", ErrInvalidConfig, o.VertexCapacity, o.HeaderCapacity)
	case o.LoadRadius < 0:
		return fmt.Errorf("%w: load radius %d", ErrInvalidConfig, o.LoadRadius)
	case o.Workers < 1:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, o.Workers)
	}
	return nil
}

// Pool управляет геометрией загруженных чанков
type Pool struct {
	mu     sync.RWMutex
	lookup map[vec.Vec3]*DrawInfo

	mesher   *mesh.Mesher
	vertices *allocator.Allocator
	headers  *allocator.Allocator

	vertexBuf Buffer
	headerBuf Buffer
	source    Source

	radius  int
	workers int

	metrics *metrics.PoolMetrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

// New создаёт пул поверх буферов вызывающего
func New(opts Options, source Source, vertexBuf, headerBuf Buffer) (*Pool, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	mesher, err := mesh.NewMesher(opts.ChunkSize)
	if err != nil {
		return nil, err
	}

	m := opts.Metrics
	if m == nil {
		m = metrics.NewPoolMetrics(nil)
	}

	return &Pool{
		lookup:    make(map[vec.Vec3]*DrawInfo),
		mesher:    mesher,
		vertices:  allocator.New(opts.VertexCapacity),
		headers:   allocator.New(opts.HeaderCapacity),
		vertexBuf: vertexBuf,
		headerBuf: headerBuf,
		source:    source,
		radius:    opts.LoadRadius,
		workers:   opts.Workers,
		metrics:   m,
		logger:    opts.Logger,
		tracer:    otel.Tracer("voxcore/pool"),
	}, nil
}

func (p *Pool) log() *logging.Logger {
	if p.logger != nil {
		return p.logger
	}
	return logging.Default()
}

// built - результат построения геометрии до размещения в пуле
type built struct {
	coords     vec.Vec3
	data       []byte
	faces      [mesh.NumDirections]mesh.FaceRange
	visibility *visibility.Graph
	checksum   uint64
}

// build строит меш и граф видимости. Не трогает состояние пула.
func (p *Pool) build(c *world.Chunk) (*built, error) {
	start := time.Now()
	msh, err := p.mesher.Mesh(c)
	if err != nil {
		return nil, fmt.Errorf("mesh chunk %s: %w", c.Coords, err)
	}
	graph := visibility.FromChunk(c)
	p.metrics.ObserveMesh(time.Since(start))

	data := msh.Bytes()
	return &built{
		coords:     c.Coords,
		data:       data,
		faces:      msh.Ranges(),
		visibility: graph,
		checksum:   xxhash.Sum64(data),
	}, nil
}

// Upload строит геометрию чанка и размещает её в пуле, заменяя прежнюю.
// Если чанк уже загружен с той же геометрией, ничего не делает.
// При нехватке места возвращает ошибку, оборачивающую allocator.ErrOutOfSpace.
func (p *Pool) Upload(ctx context.Context, c *world.Chunk) error {
	_, span := p.tracer.Start(ctx, "pool.Upload", trace.WithAttributes(
		attribute.String("chunk", c.Coords.String()),
	))
	defer span.End()

	b, err := p.build(c)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := p.commit(b); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("vertices", len(b.data)/mesh.BytesPerVertex))
	return nil
}

// commit выделяет место, пишет буферы и регистрирует чанк.
// При замене прежняя геометрия освобождается только после записи новой,
// поэтому при нехватке места чанк остаётся со старой геометрией.
func (p *Pool) commit(b *built) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	old, replacing := p.lookup[b.coords]
	if replacing && old.Checksum == b.checksum && old.VertexBytes == uint64(len(b.data)) {
		return nil
	}

	info := &DrawInfo{
		Coords:      b.coords,
		VertexBytes: uint64(len(b.data)),
		Faces:       b.faces,
		Visibility:  b.visibility,
		Checksum:    b.checksum,
	}

	// Пустой чанк занимает только заголовок
	if len(b.data) > 0 {
		off, err := p.vertices.Alloc(uint64(len(b.data)))
		if err != nil {
			p.skip("vertex_space", b.coords, err)
			return fmt.Errorf("upload chunk %s: %w", b.coords, err)
		}
		info.VertexOffset = off
	}

	// Заголовок фиксированного размера переиспользуется при замене
	if replacing {
		info.HeaderOffset = old.HeaderOffset
	} else {
		hoff, err := p.headers.Alloc(HeaderSize)
		if err != nil {
			p.rollback(info, false)
			p.skip("header_space", b.coords, err)
			return fmt.Errorf("upload chunk %s: %w", b.coords, err)
		}
		info.HeaderOffset = hoff
	}

	if err := p.write(info, b.data); err != nil {
		p.rollback(info, !replacing)
		return fmt.Errorf("upload chunk %s: %w", b.coords, err)
	}

	p.lookup[b.coords] = info
	p.metrics.ChunksUploaded.Inc()
	p.metrics.VerticesUploaded.Add(float64(info.VertexCount()))
	p.log().Debug("Чанк %s размещён: %d вершин, смещение %d", b.coords, info.VertexCount(), info.VertexOffset)

	var err error
	if replacing && old.VertexBytes > 0 {
		if err = p.vertices.Dealloc(old.VertexOffset); err != nil {
			p.log().Error("Ошибка освобождения прежней геометрии чанка %s: %v", b.coords, err)
			err = fmt.Errorf("replace chunk %s: %w", b.coords, err)
		}
	}
	p.updateGauges()
	return err
}

func (p *Pool) write(info *DrawInfo, data []byte) error {
	if len(data) > 0 {
		if err := p.vertexBuf.Write(info.VertexOffset, data); err != nil {
			return fmt.Errorf("write vertices: %w", err)
		}
	}
	header, _ := Header{Coords: info.Coords, VertexCount: info.VertexCount()}.MarshalBinary()
	if err := p.headerBuf.Write(info.HeaderOffset, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// rollback возвращает выделенные под info участки. Вызывающий держит p.mu.
func (p *Pool) rollback(info *DrawInfo, withHeader bool) {
	if info.VertexBytes > 0 {
		if err := p.vertices.Dealloc(info.VertexOffset); err != nil {
			p.log().Error("Откат вершин чанка %s: %v", info.Coords, err)
		}
	}
	if withHeader {
		if err := p.headers.Dealloc(info.HeaderOffset); err != nil {
			p.log().Error("Откат заголовка чанка %s: %v", info.Coords, err)
		}
	}
}

func (p *Pool) skip(reason string, coords vec.Vec3, err error) {
	p.metrics.UploadsSkipped.WithLabelValues(reason).Inc()
	p.log().Warn("Нет места для чанка %s, пропускаем: %v", coords, err)
}

// release освобождает участки чанка и удаляет его из таблицы. Вызывающий держит p.mu.
// Неизвестное смещение - нарушение контракта, оно логируется и возвращается.
func (p *Pool) release(info *DrawInfo) error {
	delete(p.lookup, info.Coords)

	var errs []error
	if info.VertexBytes > 0 {
		if err := p.vertices.Dealloc(info.VertexOffset); err != nil {
			errs = append(errs, err)
		}
	}
	if err := p.headers.Dealloc(info.HeaderOffset); err != nil {
		errs = append(errs, err)
	}
	p.metrics.ChunksUnloaded.Inc()
	p.updateGauges()

	if err := errors.Join(errs...); err != nil {
		p.log().Error("Ошибка освобождения чанка %s: %v", info.Coords, err)
		return fmt.Errorf("release chunk %s: %w", info.Coords, err)
	}
	return nil
}

func (p *Pool) updateGauges() {
	p.metrics.ChunksLoaded.Set(float64(len(p.lookup)))
	p.metrics.VertexPoolUsage.Set(p.vertices.PercentFull())
	p.metrics.HeaderPoolUsage.Set(p.headers.PercentFull())
}

// Unload освобождает место чанка
func (p *Pool) Unload(pos vec.Vec3) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, ok := p.lookup[pos]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotLoaded, pos)
	}
	return p.release(info)
}

// Lookup возвращает копию сведений об отрисовке чанка
func (p *Pool) Lookup(pos vec.Vec3) (DrawInfo, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	info, ok := p.lookup[pos]
	if !ok {
		return DrawInfo{}, false
	}
	return *info, true
}

// Loaded возвращает координаты загруженных чанков в лексикографическом порядке
func (p *Pool) Loaded() []vec.Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.sortedKeys()
}

func (p *Pool) sortedKeys() []vec.Vec3 {
	out := make([]vec.Vec3, 0, len(p.lookup))
	for pos := range p.lookup {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Len возвращает число загруженных чанков
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.lookup)
}

// Stats - заполненность регионов пула
type Stats struct {
	Chunks      int
	VertexUsage float64
	HeaderUsage float64
	VertexBytes uint64
}

// Stats возвращает текущую заполненность
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return Stats{
		Chunks:      len(p.lookup),
		VertexUsage: p.vertices.PercentFull(),
		HeaderUsage: p.headers.PercentFull(),
		VertexBytes: p.vertices.Used(),
	}
}
