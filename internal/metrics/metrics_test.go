package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPoolMetrics(reg)

	m.ChunksUploaded.Add(3)
	m.ChunksLoaded.Set(2)
	m.UploadsSkipped.WithLabelValues("out_of_space").Inc()
	m.ObserveMesh(2 * time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.ChunksUploaded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChunksLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsSkipped.WithLabelValues("out_of_space")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "voxcore_pool_chunks_uploaded_total")
	assert.Contains(t, names, "voxcore_mesher_mesh_duration_seconds")
}

func TestPoolMetricsWithoutRegistry(t *testing.T) {
	m := NewPoolMetrics(nil)
	m.ChunksUnloaded.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChunksUnloaded))
}

func TestExporterServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPoolMetrics(reg)
	m.VertexPoolUsage.Set(0.25)

	e := NewExporter("127.0.0.1:0", reg)
	srv := httptest.NewServer(e.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	buf := new(strings.Builder)
	_, err = io.Copy(buf, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "voxcore_pool_vertex_region_usage_ratio 0.25")
}

func TestProcessSampler(t *testing.T) {
	s, err := NewProcessSampler()
	require.NoError(t, err)

	stats, err := s.Sample()
	if err != nil {
		t.Skipf("статистика процесса недоступна: %v", err)
	}
	assert.Greater(t, stats.Goroutines, 0)
	assert.Greater(t, stats.HeapBytes, uint64(0))
}
