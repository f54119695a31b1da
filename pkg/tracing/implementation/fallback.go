package implementation

import (
	"context"

	"github.com/jt828/docstore-tracing/pkg/tracing"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type noopFallback struct {
	tracer trace.Tracer
	ctx    context.Context
	span   trace.Span
}

// NewFallbackHandle returns a FallbackHandle backed by the noop tracer. The
// span it starts records nothing but keeps the trace context flowing to
// descendants.
func NewFallbackHandle(ctx context.Context) tracing.FallbackHandle {
	return &noopFallback{
		tracer: noop.NewTracerProvider().Tracer(instrumentationName),
		ctx:    ctx,
	}
}

func (f *noopFallback) Start(name string) {
	if f.span != nil {
		return
	}
	f.ctx, f.span = f.tracer.Start(f.ctx, name)
}

func (f *noopFallback) Stop() {
	if f.span == nil {
		return
	}
	f.span.End()
}
