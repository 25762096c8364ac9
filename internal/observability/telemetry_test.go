package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTelemetryDisabled(t *testing.T) {
	shutdown, err := InitTelemetry(context.Background(), "voxcore-test", false)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTracerProviderRecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp, err := newTracerProvider(context.Background(), "voxcore-test", trace.WithSpanProcessor(rec))
	require.NoError(t, err)
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer("test").Start(context.Background(), "pool.Stream")
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "pool.Stream", spans[0].Name())

	var service string
	for _, kv := range spans[0].Resource().Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	assert.Equal(t, "voxcore-test", service)
}
