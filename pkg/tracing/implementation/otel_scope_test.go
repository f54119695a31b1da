package implementation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jt828/docstore-tracing/pkg/docstore"
	"github.com/jt828/docstore-tracing/pkg/tracing/implementation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestSpanKindFor(t *testing.T) {
	assert.Equal(t, trace.SpanKindClient, implementation.SpanKindFor(docstore.ConnectionModeDirect))
	assert.Equal(t, trace.SpanKindInternal, implementation.SpanKindFor(docstore.ConnectionModeGateway))
	assert.Equal(t, trace.SpanKindInternal, implementation.SpanKindFor(docstore.ConnectionMode("")))
}

func TestOtelScope(t *testing.T) {
	newTracer := func() (trace.Tracer, *tracetest.SpanRecorder) {
		sr := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
		return tp.Tracer("test"), sr
	}

	t.Run("records span with kind attributes and error status", func(t *testing.T) {
		tracer, sr := newTracer()
		scope := implementation.NewScope(context.Background(), tracer, "ReadItemAsync items", docstore.ConnectionModeDirect)

		scope.Start()
		require.True(t, scope.IsEnabled())
		scope.SetAttributes(attribute.String("db.name", "orders"))
		scope.MarkFailed(errors.New("boom"))
		scope.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, "ReadItemAsync items", spans[0].Name())
		assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Contains(t, spans[0].Attributes(), attribute.String("db.name", "orders"))
	})

	t.Run("start is idempotent", func(t *testing.T) {
		tracer, sr := newTracer()
		scope := implementation.NewScope(context.Background(), tracer, "ReadItemAsync", docstore.ConnectionModeGateway)

		scope.Start()
		scope.Start()
		scope.End()

		assert.Len(t, sr.Ended(), 1)
	})

	t.Run("unstarted scope is inert", func(t *testing.T) {
		tracer, sr := newTracer()
		scope := implementation.NewScope(context.Background(), tracer, "ReadItemAsync", docstore.ConnectionModeGateway)

		assert.False(t, scope.IsEnabled())
		require.NotPanics(t, func() {
			scope.SetAttributes(attribute.Bool("x", true))
			scope.MarkFailed(nil)
			scope.End()
		})
		assert.Empty(t, sr.Ended())
	})

	t.Run("never-sampled span reports disabled", func(t *testing.T) {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.NeverSample()))
		scope := implementation.NewScope(context.Background(), tp.Tracer("test"), "ReadItemAsync", docstore.ConnectionModeDirect)

		scope.Start()
		assert.False(t, scope.IsEnabled())
		scope.End()
	})

	t.Run("mark failed without error leaves an empty description", func(t *testing.T) {
		tracer, sr := newTracer()
		scope := implementation.NewScope(context.Background(), tracer, "ReadItemAsync", docstore.ConnectionModeDirect)

		scope.Start()
		scope.MarkFailed(nil)
		scope.End()

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status().Code)
		assert.Empty(t, spans[0].Status().Description)
	})

	t.Run("scope context carries the started span", func(t *testing.T) {
		tracer, _ := newTracer()
		ctx := context.Background()
		scope := implementation.NewScope(ctx, tracer, "ReadItemAsync", docstore.ConnectionModeDirect)

		scope.Start()
		spanCtx := implementation.ScopeContext(scope, ctx)
		assert.True(t, trace.SpanContextFromContext(spanCtx).IsValid())
		scope.End()
	})
}

func TestFallbackHandle(t *testing.T) {
	handle := implementation.NewFallbackHandle(context.Background())

	require.NotPanics(t, func() {
		handle.Start("ReadItemAsync")
		handle.Start("ReadItemAsync")
		handle.Stop()
		handle.Stop()
	})
}
