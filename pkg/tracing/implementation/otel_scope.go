package implementation

import (
	"context"

	"github.com/jt828/docstore-tracing/pkg/docstore"
	"github.com/jt828/docstore-tracing/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type otelScope struct {
	tracer trace.Tracer
	name   string
	kind   trace.SpanKind
	ctx    context.Context
	span   trace.Span
}

// NewScope builds a tracing.Scope backed by an OpenTelemetry span. The span
// kind follows the connection mode: gateway operations run through an
// intermediary and are internal, direct operations talk to the backend and
// are client spans.
func NewScope(ctx context.Context, tracer trace.Tracer, name string, mode docstore.ConnectionMode) tracing.Scope {
	return &otelScope{
		tracer: tracer,
		name:   name,
		kind:   SpanKindFor(mode),
		ctx:    ctx,
	}
}

func SpanKindFor(mode docstore.ConnectionMode) trace.SpanKind {
	if mode == docstore.ConnectionModeDirect {
		return trace.SpanKindClient
	}
	return trace.SpanKindInternal
}

func (s *otelScope) Start() {
	if s.span != nil {
		return
	}
	s.ctx, s.span = s.tracer.Start(s.ctx, s.name, trace.WithSpanKind(s.kind))
}

func (s *otelScope) IsEnabled() bool {
	return s.span != nil && s.span.IsRecording()
}

func (s *otelScope) SetAttributes(kvs ...attribute.KeyValue) {
	if s.span == nil {
		return
	}
	s.span.SetAttributes(kvs...)
}

func (s *otelScope) MarkFailed(err error) {
	if s.span == nil {
		return
	}
	desc := ""
	if err != nil {
		desc = err.Error()
	}
	s.span.SetStatus(codes.Error, desc)
}

func (s *otelScope) End() {
	if s.span == nil {
		return
	}
	s.span.End()
}

// Context returns the context carrying the started span, for propagation to
// descendant network calls.
func (s *otelScope) Context() context.Context {
	return s.ctx
}

// ScopeContext unwraps the propagation context of a scope built by NewScope.
func ScopeContext(s tracing.Scope, fallback context.Context) context.Context {
	if os, ok := s.(*otelScope); ok {
		return os.Context()
	}
	return fallback
}
