// Package tracingtest verifies recorder output. It fans one tracer provider
// out to two independent collectors and checks, after a batch of operations,
// that both saw identical spans and that every operation-level span honors
// the attribute vocabulary.
package tracingtest

import (
	"context"
	"sort"
	"testing"

	"github.com/jt828/docstore-tracing/pkg/docstore"
	"github.com/jt828/docstore-tracing/pkg/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// Collectors is one tracer provider observed by two collection backends: a
// span recorder and an in-memory exporter. The recorder under test never
// knows there are two; fan-out is purely a provider concern.
type Collectors struct {
	Provider     *sdktrace.TracerProvider
	SpanRecorder *tracetest.SpanRecorder
	Exporter     *tracetest.InMemoryExporter
}

func Setup() *Collectors {
	sr := tracetest.NewSpanRecorder()
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sr),
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exp)),
	)
	return &Collectors{Provider: tp, SpanRecorder: sr, Exporter: exp}
}

func (c *Collectors) Tracer() trace.Tracer {
	return c.Provider.Tracer("tracingtest")
}

func (c *Collectors) Shutdown(ctx context.Context) error {
	return c.Provider.Shutdown(ctx)
}

// Span is a collected span normalized for comparison: attributes sorted by
// key, status reduced to its code.
type Span struct {
	SpanID     string
	Name       string
	Kind       trace.SpanKind
	Status     codes.Code
	Attributes []attribute.KeyValue
}

func normalizeAttrs(kvs []attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, len(kvs))
	copy(out, kvs)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// RecordedSpans returns the spans collector A (the span recorder) gathered.
func (c *Collectors) RecordedSpans() []Span {
	ended := c.SpanRecorder.Ended()
	out := make([]Span, 0, len(ended))
	for _, s := range ended {
		out = append(out, Span{
			SpanID:     s.SpanContext().SpanID().String(),
			Name:       s.Name(),
			Kind:       s.SpanKind(),
			Status:     s.Status().Code,
			Attributes: normalizeAttrs(s.Attributes()),
		})
	}
	return out
}

// ExportedSpans returns the spans collector B (the in-memory exporter)
// gathered.
func (c *Collectors) ExportedSpans() []Span {
	stubs := c.Exporter.GetSpans()
	out := make([]Span, 0, len(stubs))
	for _, s := range stubs {
		out = append(out, Span{
			SpanID:     s.SpanContext.SpanID().String(),
			Name:       s.Name,
			Kind:       s.SpanKind,
			Status:     s.Status.Code,
			Attributes: normalizeAttrs(s.Attributes),
		})
	}
	return out
}

// RequireEquivalent asserts the two collections are structurally identical
// once sorted by span id. A divergence means a span reached one backend but
// not the other, or with different content.
func RequireEquivalent(t testing.TB, a, b []Span) {
	t.Helper()
	sortSpans(a)
	sortSpans(b)
	require.Equal(t, a, b)
}

func sortSpans(spans []Span) {
	sort.Slice(spans, func(i, j int) bool { return spans[i].SpanID < spans[j].SpanID })
}

// Operations whose spans legitimately carry no container name: they act on a
// database, not a container.
var containerlessOperations = map[string]struct{}{
	"CreateDatabaseAsync":            {},
	"CreateDatabaseIfNotExistsAsync": {},
	"ReadAsync":                      {},
	"DeleteAsync":                    {},
	"DeleteStreamAsync":              {},
}

func attrValue(s Span, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range s.Attributes {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

// RequireVocabulary asserts every operation-level span carries only allowed
// attribute keys with contextually correct values. Spans without a
// db.operation attribute (network-level, fallback) are skipped.
func RequireVocabulary(t testing.TB, spans []Span) {
	t.Helper()
	for _, s := range spans {
		op, ok := attrValue(s, tracing.DBOperationKey)
		if !ok {
			continue
		}
		checkSpan(t, s, op.AsString())
	}
}

func checkSpan(t testing.TB, s Span, operation string) {
	t.Helper()

	for _, kv := range s.Attributes {
		assert.Truef(t, tracing.IsAllowedKey(kv.Key),
			"span %q carries key %q outside the allowed vocabulary", s.Name, kv.Key)
	}

	dbName, ok := attrValue(s, tracing.DBNameKey)
	assert.Truef(t, ok && dbName.AsString() != "",
		"span %q is missing a database name", s.Name)

	container, hasContainer := attrValue(s, tracing.ContainerKey)
	if _, excluded := containerlessOperations[operation]; excluded {
		assert.Falsef(t, hasContainer && container.AsString() != "",
			"span %q for %s must not carry a container name", s.Name, operation)
	} else {
		assert.Truef(t, hasContainer && container.AsString() != "",
			"span %q for %s must carry a container name", s.Name, operation)
	}

	checkStatus(t, s)

	if mode, ok := attrValue(s, tracing.ConnectionModeKey); ok {
		want := trace.SpanKindInternal
		if mode.AsString() == string(docstore.ConnectionModeDirect) {
			want = trace.SpanKindClient
		}
		assert.Equalf(t, want, s.Kind,
			"span %q kind does not match connection mode %s", s.Name, mode.AsString())
	}
}

func checkStatus(t testing.TB, s Span) {
	t.Helper()

	status, hasStatus := attrValue(s, tracing.StatusCodeKey)
	subStatus, _ := attrValue(s, tracing.SubStatusCodeKey)
	if hasStatus {
		if tracing.IsSuccessful(int(status.AsInt64()), int(subStatus.AsInt64())) {
			assert.NotEqualf(t, codes.Error, s.Status,
				"span %q forced to error despite successful pair %d/%d",
				s.Name, status.AsInt64(), subStatus.AsInt64())
		} else {
			assert.Equalf(t, codes.Error, s.Status,
				"span %q not marked error for failing pair %d/%d",
				s.Name, status.AsInt64(), subStatus.AsInt64())
		}
		return
	}

	// No status pair recorded: only an exception justifies an error status.
	if _, hasExc := attrValue(s, tracing.ExceptionTypeKey); !hasExc {
		assert.NotEqualf(t, codes.Error, s.Status,
			"span %q marked error with neither status pair nor exception", s.Name)
	}
}

// RequireConsistent runs both oracle checks over everything the two
// collectors gathered.
func (c *Collectors) RequireConsistent(t testing.TB) {
	t.Helper()
	a := c.RecordedSpans()
	b := c.ExportedSpans()
	RequireEquivalent(t, a, b)
	RequireVocabulary(t, a)
}
