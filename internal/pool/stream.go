package pool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/annel0/voxcore/internal/allocator"
	"github.com/annel0/voxcore/internal/vec"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// StreamResult - итог одного прохода подгрузки
type StreamResult struct {
	Added   int
	Removed int
	Skipped int
}

// Plan вычисляет, какие чанки нужно загрузить и выгрузить, чтобы в пуле
// оказался ровно куб радиуса LoadRadius вокруг center.
// Загружаемые упорядочены от ближних к дальним.
func (p *Pool) Plan(center vec.Vec3) (add, remove []vec.Vec3) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	r := p.radius
	for x := center.X - r; x <= center.X+r; x++ {
		for y := center.Y - r; y <= center.Y+r; y++ {
			for z := center.Z - r; z <= center.Z+r; z++ {
				pos := vec.Vec3{X: x, Y: y, Z: z}
				if _, ok := p.lookup[pos]; !ok {
					add = append(add, pos)
				}
			}
		}
	}

	for _, pos := range p.sortedKeys() {
		if pos.ChebyshevTo(center) > r {
			remove = append(remove, pos)
		}
	}

	sort.SliceStable(add, func(i, j int) bool {
		return add[i].ChebyshevTo(center) < add[j].ChebyshevTo(center)
	})
	return add, remove
}

// Stream выгружает чанки вне радиуса и параллельно строит и размещает
// недостающие. Чанки, для которых не хватило места, пропускаются и будут
// повторены при следующем вызове.
func (p *Pool) Stream(ctx context.Context, center vec.Vec3) (StreamResult, error) {
	ctx, span := p.tracer.Start(ctx, "pool.Stream")
	defer span.End()
	start := time.Now()
	defer func() { p.metrics.StreamDuration.Observe(time.Since(start).Seconds()) }()

	var res StreamResult
	if p.source == nil {
		return res, fmt.Errorf("%w: no chunk source", ErrInvalidConfig)
	}

	add, remove := p.Plan(center)
	span.SetAttributes(
		attribute.String("center", center.String()),
		attribute.Int("to_add", len(add)),
		attribute.Int("to_remove", len(remove)),
	)

	for _, pos := range remove {
		if err := p.Unload(pos); err != nil && !errors.Is(err, ErrNotLoaded) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return res, err
		}
		res.Removed++
	}

	var added, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, pos := range add {
		pos := pos
		g.Go(func() error {
			c, err := p.source.Chunk(gctx, pos)
			if err != nil {
				return fmt.Errorf("load chunk %s: %w", pos, err)
			}
			b, err := p.build(c)
			if err != nil {
				return err
			}
			if err := p.commit(b); err != nil {
				if errors.Is(err, allocator.ErrOutOfSpace) {
					skipped.Add(1)
					return nil
				}
				return err
			}
			added.Add(1)
			return nil
		})
	}

	err := g.Wait()
	res.Added = int(added.Load())
	res.Skipped = int(skipped.Load())
	span.SetAttributes(attribute.Int("added", res.Added), attribute.Int("skipped", res.Skipped))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	p.log().Info("Подгрузка вокруг %s: +%d -%d, пропущено %d, заполнено %.1f%%",
		center, res.Added, res.Removed, res.Skipped, p.Stats().VertexUsage*100)
	return res, nil
}
