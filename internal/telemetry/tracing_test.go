package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracerProvider(t *testing.T) {
	ctx := context.Background()

	tp, err := InitTracerProvider(ctx, Options{Service: "cart", Version: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { tp.Shutdown(ctx) })

	assert.Same(t, tp, otel.GetTracerProvider())

	recorder := tracetest.NewSpanRecorder()
	tp.RegisterSpanProcessor(recorder)

	_, span := otel.Tracer("test").Start(ctx, "AddProduct")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "AddProduct", spans[0].Name())

	var found bool
	for _, kv := range spans[0].Resource().Attributes() {
		if kv.Key == "service.name" {
			found = kv.Value.AsString() == "cart"
		}
	}
	assert.True(t, found)
}
