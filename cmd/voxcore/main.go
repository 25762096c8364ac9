package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxcore/internal/config"
	"github.com/annel0/voxcore/internal/logging"
	"github.com/annel0/voxcore/internal/metrics"
	"github.com/annel0/voxcore/internal/observability"
	"github.com/annel0/voxcore/internal/pool"
	"github.com/annel0/voxcore/internal/storage"
	"github.com/annel0/voxcore/internal/vec"
	"github.com/annel0/voxcore/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (or VOXCORE_CONFIG)")
		startX     = flag.Int("x", 0, "Start chunk X")
		startY     = flag.Int("y", 0, "Start chunk Y")
		startZ     = flag.Int("z", 0, "Start chunk Z")
		steps      = flag.Int("steps", 8, "Number of chunks to walk along +X (0 - stay until signal)")
		interval   = flag.Duration("interval", time.Second, "Delay between streaming passes")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	logging.SetLogDir(cfg.Log.Dir)
	if err := logging.InitDefaultLogger("voxcore"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	if level, err := logging.ParseLevel(cfg.Log.ConsoleLevel); err == nil {
		logging.Default().SetLevels(level, logging.TRACE)
		logging.GetLoggerManager().SetConsoleLevel(level)
	} else {
		logging.Warn("Неизвестный уровень логирования %q, используется INFO", cfg.Log.ConsoleLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info("🧊 Запуск voxcore: чанк %d, радиус %d, регион вершин %d МБ",
		cfg.Chunk.Size, cfg.Pool.LoadRadius, cfg.Pool.VertexCapacity>>20)

	// === ТЕЛЕМЕТРИЯ ===
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		logging.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Error("Ошибка остановки OpenTelemetry: %v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	poolMetrics := metrics.NewPoolMetrics(reg)

	exporter := metrics.NewExporter(cfg.Metrics.GetMetricsAddr(), reg)
	exporter.StartHTTP()
	defer exporter.Close()

	// === ИСТОЧНИК ЧАНКОВ ===
	gen := world.NewGenerator(cfg.Generator.Seed, cfg.Chunk.Size)
	gen.NoiseScale = cfg.Generator.NoiseScale
	gen.SeaLevel = cfg.Generator.SeaLevel

	var source pool.Source = gen
	if cfg.Storage.Enabled {
		store, err := storage.NewChunkStore(cfg.Storage.GetStoragePath(), cfg.Chunk.Size, gen, logging.GetStorageLogger())
		if err != nil {
			log.Fatalf("❌ Ошибка открытия хранилища: %v", err)
		}
		defer store.Close()
		source = store
		logging.Info("💾 Хранилище чанков: %s", cfg.Storage.GetStoragePath())
	}

	// === ПУЛ ГЕОМЕТРИИ ===
	chunkPool, err := pool.New(pool.Options{
		ChunkSize:      cfg.Chunk.Size,
		VertexCapacity: cfg.Pool.VertexCapacity,
		HeaderCapacity: cfg.Pool.HeaderCapacity,
		LoadRadius:     cfg.Pool.LoadRadius,
		Workers:        cfg.Pool.GetWorkers(),
		Metrics:        poolMetrics,
		Logger:         logging.GetPoolLogger(),
	}, source, pool.NewMemoryBuffer(cfg.Pool.VertexCapacity), pool.NewMemoryBuffer(cfg.Pool.HeaderCapacity))
	if err != nil {
		log.Fatalf("❌ Ошибка создания пула: %v", err)
	}

	sampler, err := metrics.NewProcessSampler()
	if err != nil {
		logging.Warn("Статистика процесса недоступна: %v", err)
	}

	center := vec.Vec3{X: *startX, Y: *startY, Z: *startZ}
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for step := 0; ; step++ {
		res, err := chunkPool.Stream(ctx, center)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logging.Error("❌ Ошибка подгрузки вокруг %s: %v", center, err)
		}

		stats := chunkPool.Stats()
		draws := chunkPool.DrawList(nil)
		logging.Info("📦 %s: +%d -%d (пропущено %d), чанков %d, вызовов отрисовки %d, вершины %.1f%%, заголовки %.1f%%",
			center, res.Added, res.Removed, res.Skipped, stats.Chunks, len(draws),
			stats.VertexUsage*100, stats.HeaderUsage*100)

		if sampler != nil {
			if ps, err := sampler.Sample(); err == nil {
				logging.Debug("CPU %.1f%%, RSS %d МБ, heap %d МБ, горутин %d",
					ps.CPUPercent, ps.RSSBytes>>20, ps.HeapBytes>>20, ps.Goroutines)
			}
		}

		if *steps > 0 && step+1 >= *steps {
			break
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			break
		}
		if *steps > 0 {
			center.X++
		}
	}

	if ctx.Err() != nil {
		logging.Info("📡 Получен сигнал завершения")
	}
	logging.Info("👋 voxcore остановлен, загружено чанков: %d", chunkPool.Len())
}
