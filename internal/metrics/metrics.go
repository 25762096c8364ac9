package metrics

import (
	"net/http"
	"time"

	"github.com/annel0/voxcore/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voxcore"

// PoolMetrics - Prometheus-метрики пула геометрии чанков.
// Все поля безопасны для конкурентного использования.
type PoolMetrics struct {
	ChunksLoaded     prometheus.Gauge
	ChunksUploaded   prometheus.Counter
	ChunksUnloaded   prometheus.Counter
	UploadsSkipped   *prometheus.CounterVec
	VerticesUploaded prometheus.Counter
	VertexPoolUsage  prometheus.Gauge
	HeaderPoolUsage  prometheus.Gauge
	MeshDuration     prometheus.Histogram
	StreamDuration   prometheus.Histogram
}

// NewPoolMetrics создаёт метрики и регистрирует их в reg.
// При reg == nil метрики работают, но никуда не экспортируются (удобно в тестах).
func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	m := &PoolMetrics{
		ChunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "chunks_loaded",
			Help:      "Число чанков, геометрия которых размещена в пуле.",
		}),
		ChunksUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "chunks_uploaded_total",
			Help:      "Общее число загруженных в пул чанков.",
		}),
		ChunksUnloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "chunks_unloaded_total",
			Help:      "Общее число выгруженных из пула чанков.",
		}),
		UploadsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "uploads_skipped_total",
			Help:      "Чанки, не размещённые в пуле, по причине.",
		}, []string{"reason"}),
		VerticesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "vertices_uploaded_total",
			Help:      "Общее число записанных в буфер вершин.",
		}),
		VertexPoolUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "vertex_region_usage_ratio",
			Help:      "Заполненность региона вершин (0..1).",
		}),
		HeaderPoolUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "header_region_usage_ratio",
			Help:      "Заполненность региона заголовков (0..1).",
		}),
		MeshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mesher",
			Name:      "mesh_duration_seconds",
			Help:      "Время построения меша одного чанка.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		StreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "stream_duration_seconds",
			Help:      "Время одного прохода подгрузки чанков вокруг центра.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ChunksLoaded, m.ChunksUploaded, m.ChunksUnloaded, m.UploadsSkipped,
			m.VerticesUploaded, m.VertexPoolUsage, m.HeaderPoolUsage,
			m.MeshDuration, m.StreamDuration,
		)
	}
	return m
}

// ObserveMesh записывает длительность построения меша
func (m *PoolMetrics) ObserveMesh(d time.Duration) {
	m.MeshDuration.Observe(d.Seconds())
}

// Exporter обслуживает HTTP-эндпоинт /metrics для указанного Gatherer
type Exporter struct {
	server *http.Server
}

// NewExporter создаёт экспортер, но не запускает HTTP-сервер
func NewExporter(addr string, g prometheus.Gatherer) *Exporter {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return &Exporter{server: &http.Server{Addr: addr, Handler: mux}}
}

// StartHTTP запускает сервер в отдельной горутине
func (e *Exporter) StartHTTP() {
	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", e.server.Addr)
		if err := e.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
}

// Handler возвращает обработчик эндпоинта
func (e *Exporter) Handler() http.Handler {
	return e.server.Handler
}

// Close останавливает HTTP-сервер
func (e *Exporter) Close() error {
	return e.server.Close()
}
