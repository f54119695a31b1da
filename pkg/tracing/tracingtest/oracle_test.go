package tracingtest_test

import (
	"context"
	"testing"

	"github.com/jt828/docstore-tracing/pkg/docstore"
	"github.com/jt828/docstore-tracing/pkg/tracing"
	"github.com/jt828/docstore-tracing/pkg/tracing/implementation"
	"github.com/jt828/docstore-tracing/pkg/tracing/tracingtest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func client(mode docstore.ConnectionMode) docstore.ClientContext {
	return docstore.ClientContext{
		ClientID:  "client-1",
		MachineID: "machine-1",
		UserAgent: "docstore-go/test",
		Endpoint:  "db.example.com",
		Mode:      mode,
	}
}

type operation struct {
	req     tracing.OperationRequest
	mode    docstore.ConnectionMode
	outcome *tracing.ResponseOutcome
	err     error
}

func runBatch(t *testing.T, c *tracingtest.Collectors, ops []operation) {
	t.Helper()
	registry := tracing.DefaultErrorRegistry()
	for _, op := range ops {
		scope := implementation.NewScope(context.Background(), c.Tracer(), op.req.OperationName, op.mode)
		rec := tracing.NewRecorder(scope, op.req, client(op.mode), registry)
		if op.outcome != nil {
			rec.RecordResponse(*op.outcome)
		}
		if op.err != nil {
			rec.MarkFailed(op.err)
		}
		rec.End()
	}
}

func batch() []operation {
	return []operation{
		{
			req: tracing.OperationRequest{
				OperationName: "ReadItemAsync",
				DatabaseName:  "orders",
				ContainerName: "items",
				OperationType: docstore.OperationRead,
			},
			mode: docstore.ConnectionModeDirect,
			outcome: &tracing.ResponseOutcome{
				StatusCode:    200,
				ItemCount:     1,
				RequestCharge: decimal.NewFromFloat(2.33),
				ActivityID:    "act-1",
				Diagnostics:   &docstore.Diagnostics{Regions: []string{"westeurope"}},
			},
		},
		{
			req: tracing.OperationRequest{
				OperationName: "ReadItemAsync",
				DatabaseName:  "orders",
				ContainerName: "items",
				OperationType: docstore.OperationRead,
			},
			mode:    docstore.ConnectionModeDirect,
			outcome: &tracing.ResponseOutcome{StatusCode: 404, ActivityID: "act-2"},
		},
		{
			req: tracing.OperationRequest{
				OperationName: "DeleteAsync",
				DatabaseName:  "orders",
				OperationType: docstore.OperationDelete,
			},
			mode:    docstore.ConnectionModeGateway,
			outcome: &tracing.ResponseOutcome{StatusCode: 200, ActivityID: "act-3"},
		},
		{
			req: tracing.OperationRequest{
				OperationName: "CreateItemAsync",
				DatabaseName:  "orders",
				ContainerName: "items",
				OperationType: docstore.OperationCreate,
			},
			mode:    docstore.ConnectionModeGateway,
			outcome: &tracing.ResponseOutcome{StatusCode: 429, SubStatusCode: 3200, ActivityID: "act-4"},
		},
		{
			req: tracing.OperationRequest{
				OperationName: "QueryItemsAsync",
				DatabaseName:  "orders",
				ContainerName: "items",
				OperationType: docstore.OperationQuery,
			},
			mode: docstore.ConnectionModeDirect,
			err:  &docstore.StatusError{Code: 503, SubStatus: 0, ActivityID: "act-5", Message: "upstream unavailable"},
		},
	}
}

func TestOracle_BatchIsConsistent(t *testing.T) {
	c := tracingtest.Setup()
	defer func() { require.NoError(t, c.Shutdown(context.Background())) }()

	runBatch(t, c, batch())

	c.RequireConsistent(t)

	a := c.RecordedSpans()
	b := c.ExportedSpans()
	assert.Len(t, a, 5)
	assert.Len(t, b, 5)
}

func spanByActivity(t *testing.T, spans []tracingtest.Span, activityID string) tracingtest.Span {
	t.Helper()
	for _, s := range spans {
		for _, kv := range s.Attributes {
			if kv.Key == tracing.ActivityIDKey && kv.Value.AsString() == activityID {
				return s
			}
		}
	}
	t.Fatalf("no span with activity id %s", activityID)
	return tracingtest.Span{}
}

func spanByName(t *testing.T, spans []tracingtest.Span, name string) tracingtest.Span {
	t.Helper()
	for _, s := range spans {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no span named %s", name)
	return tracingtest.Span{}
}

func TestOracle_SpanContent(t *testing.T) {
	c := tracingtest.Setup()
	defer func() { require.NoError(t, c.Shutdown(context.Background())) }()

	runBatch(t, c, batch())
	spans := c.RecordedSpans()

	t.Run("direct read is a client span with ok status and container", func(t *testing.T) {
		s := spanByActivity(t, spans, "act-1")
		assert.Equal(t, trace.SpanKindClient, s.Kind)
		assert.NotEqual(t, codes.Error, s.Status)
		hasContainer := false
		for _, kv := range s.Attributes {
			if kv.Key == tracing.ContainerKey {
				hasContainer = kv.Value.AsString() != ""
			}
		}
		assert.True(t, hasContainer)
	})

	t.Run("expected not-found stays ok despite 404", func(t *testing.T) {
		s := spanByActivity(t, spans, "act-2")
		assert.NotEqual(t, codes.Error, s.Status)
	})

	t.Run("database delete carries no container and is internal", func(t *testing.T) {
		s := spanByActivity(t, spans, "act-3")
		assert.Equal(t, trace.SpanKindInternal, s.Kind)
		for _, kv := range s.Attributes {
			assert.NotEqual(t, tracing.ContainerKey, kv.Key)
		}
	})

	t.Run("throttled create is an error span", func(t *testing.T) {
		s := spanByActivity(t, spans, "act-4")
		assert.Equal(t, codes.Error, s.Status)
	})

	t.Run("classified exception carries handler attributes", func(t *testing.T) {
		s := spanByName(t, spans, "QueryItemsAsync")
		assert.Equal(t, codes.Error, s.Status)
		byKey := map[string]string{}
		for _, kv := range s.Attributes {
			byKey[string(kv.Key)] = kv.Value.Emit()
		}
		assert.Equal(t, "503", byKey[string(tracing.StatusCodeKey)])
		assert.Equal(t, "act-5", byKey[string(tracing.ActivityIDKey)])
		assert.Contains(t, byKey[string(tracing.ExceptionMessageKey)], "upstream unavailable")
	})
}

func TestOracle_EquivalenceIsOrderInsensitive(t *testing.T) {
	c := tracingtest.Setup()
	defer func() { require.NoError(t, c.Shutdown(context.Background())) }()

	runBatch(t, c, batch())

	a := c.RecordedSpans()
	b := c.ExportedSpans()
	// Reverse one side; the oracle sorts by span id before comparing.
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	tracingtest.RequireEquivalent(t, a, b)
}

func TestOracle_SkipsNonOperationSpans(t *testing.T) {
	c := tracingtest.Setup()
	defer func() { require.NoError(t, c.Shutdown(context.Background())) }()

	// A network-level parent span has no identity attributes and must not
	// trip the vocabulary checks.
	scope := implementation.NewScope(context.Background(), c.Tracer(), "transport", docstore.ConnectionModeDirect)
	rec := tracing.NewRecorderWithNetworkParent(scope)
	rec.End()

	c.RequireConsistent(t)
}
