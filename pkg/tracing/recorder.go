package tracing

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/jt828/docstore-tracing/pkg/docstore"
	"github.com/jt828/docstore-tracing/pkg/logging"
	"go.opentelemetry.io/otel/attribute"
)

// OperationRequest describes the operation a recorder wraps.
type OperationRequest struct {
	OperationName string
	DatabaseName  string
	ContainerName string
	OperationType docstore.OperationType
}

type Options struct {
	// Diagnostics of successful operations are only logged when the
	// operation took at least this long; failures are always logged.
	LatencyThreshold time.Duration
	Logger           logging.Logger
}

type Option func(*Options)

func WithLatencyThreshold(d time.Duration) Option {
	return func(o *Options) {
		o.LatencyThreshold = d
	}
}

func WithLogger(log logging.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}

func applyOptions(opts ...Option) Options {
	o := Options{LatencyThreshold: 100 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Recorder wraps exactly one client operation in a span. It is created at
// operation start, fed a response or an error along the way, and finalized
// with End on every exit path (callers defer it). A recorder is never shared
// across operations and does no locking of its own.
//
// Nothing here may disturb the operation it observes: with no listener
// attached every method is a silent no-op, and no input, malformed or nil,
// makes a recorder panic or return an error.
type Recorder struct {
	scope    Scope
	fallback FallbackHandle
	registry *ErrorRegistry
	opts     Options

	opType        docstore.OperationType
	started       time.Time
	outcome       *ResponseOutcome
	networkParent bool
	failed        bool
	ended         bool
}

// NewRecorder is the primary construction path, used when operation-level
// listeners exist. The identity block is only computed when the scope
// reports itself enabled, so an untraced operation pays nothing.
func NewRecorder(scope Scope, req OperationRequest, cc docstore.ClientContext, registry *ErrorRegistry, opts ...Option) *Recorder {
	r := &Recorder{
		scope:    scope,
		registry: registry,
		opts:     applyOptions(opts...),
		opType:   req.OperationType,
		started:  time.Now(),
	}
	scope.Start()
	r.RecordRequest(req.OperationName, req.ContainerName, req.DatabaseName, cc)
	return r
}

// NewRecorderWithNetworkParent starts the supplied scope without recording
// any attributes. Used when only network-level listeners exist: the span
// parents the per-network-call spans beneath it and nothing else.
func NewRecorderWithNetworkParent(scope Scope, opts ...Option) *Recorder {
	r := &Recorder{
		scope:         scope,
		opts:          applyOptions(opts...),
		started:       time.Now(),
		networkParent: true,
	}
	scope.Start()
	return r
}

// NewRecorderWithFallback starts only the raw fallback handle. Used when no
// listener exists anywhere; descendants keep their causal linkage and no
// attribute work ever happens.
func NewRecorderWithFallback(handle FallbackHandle, name string, opts ...Option) *Recorder {
	r := &Recorder{
		fallback: handle,
		opts:     applyOptions(opts...),
		started:  time.Now(),
	}
	handle.Start(name)
	return r
}

// IsEnabled reports whether attribute writes reach a listener.
func (r *Recorder) IsEnabled() bool {
	return r.scope != nil && r.scope.IsEnabled()
}

// RecordAttribute writes a single attribute. Repeated writes of the same key
// keep the latest value.
func (r *Recorder) RecordAttribute(kv attribute.KeyValue) {
	if !r.IsEnabled() {
		return
	}
	r.scope.SetAttributes(kv)
}

// RecordRequest writes the identity attribute block. It runs once during
// NewRecorder and may be re-called idempotently, e.g. when the container is
// only resolved after construction.
func (r *Recorder) RecordRequest(operationName, containerName, databaseName string, cc docstore.ClientContext) {
	if !r.IsEnabled() {
		return
	}
	attrs := []attribute.KeyValue{
		DBSystemKey.String(DBSystemValue),
		DBOperationKey.String(operationName),
		DBNameKey.String(databaseName),
		MachineIDKey.String(cc.MachineID),
		NetPeerNameKey.String(cc.Endpoint),
		ClientIDKey.String(cc.ClientID),
		UserAgentKey.String(cc.UserAgent),
		ConnectionModeKey.String(string(cc.Mode)),
	}
	if containerName != "" {
		attrs = append(attrs, ContainerKey.String(containerName))
	}
	r.scope.SetAttributes(attrs...)
}

// RecordResponse stores the outcome for finalization. Retries may call this
// once per attempt; only the latest outcome is reflected on the span.
func (r *Recorder) RecordResponse(out ResponseOutcome) {
	if !r.IsEnabled() {
		return
	}
	r.outcome = &out
}

// MarkFailed records err on the span. The registry handler of the first
// matching category runs and owns any message attribute; unmatched errors
// get a generic exception.message. Status is forced to error right away
// unless err carries a status pair the classifier considers successful.
func (r *Recorder) MarkFailed(err error) {
	if err == nil || !r.IsEnabled() {
		return
	}

	r.scope.SetAttributes(
		ExceptionTypeKey.String(fmt.Sprintf("%T", err)),
		ExceptionStacktraceKey.String(string(debug.Stack())),
	)
	if !r.registry.Apply(err, r.scope) {
		r.scope.SetAttributes(ExceptionMessageKey.String(err.Error()))
	}

	var sc docstore.StatusCoded
	if errors.As(err, &sc) && IsSuccessful(sc.StatusCode(), sc.SubStatusCode()) {
		return
	}
	r.scope.MarkFailed(err)
	r.failed = true
}

// End finalizes the recorder. It is idempotent and must run on every exit
// path; all derived attributes are computed here.
func (r *Recorder) End() {
	if r.ended {
		return
	}
	r.ended = true

	if !r.IsEnabled() || r.networkParent {
		if r.fallback != nil {
			r.fallback.Stop()
		}
		if r.scope != nil {
			r.scope.End()
		}
		return
	}

	opType := r.opType
	if r.outcome != nil && r.outcome.OperationType.Valid() {
		opType = r.outcome.OperationType
	}
	r.scope.SetAttributes(OperationTypeKey.String(opType.String()))

	if out := r.outcome; out != nil {
		attrs := []attribute.KeyValue{
			RequestContentLengthKey.Int64(out.RequestContentLength),
			ResponseContentLengthKey.Int64(out.ResponseContentLength),
			StatusCodeKey.Int(out.StatusCode),
			SubStatusCodeKey.Int(out.SubStatusCode),
			RequestChargeKey.Float64(out.RequestCharge.InexactFloat64()),
			ItemCountKey.Int64(out.ItemCount),
			ActivityIDKey.String(out.ActivityID),
			CorrelatedActivityIDKey.String(out.CorrelatedActivityID),
		}
		if out.Diagnostics != nil {
			attrs = append(attrs,
				RegionsContactedKey.String(out.Diagnostics.ContactedRegions()),
				RetryCountKey.Int(out.Diagnostics.RetryCount),
			)
		}
		r.scope.SetAttributes(attrs...)

		if !IsSuccessful(out.StatusCode, out.SubStatusCode) {
			r.scope.MarkFailed(nil)
			r.failed = true
		}
		if out.Diagnostics != nil {
			r.logDiagnostics(opType, out)
		}
	}

	r.scope.End()
}

// logDiagnostics is a fire-and-forget side effect; it cannot fail the
// operation.
func (r *Recorder) logDiagnostics(opType docstore.OperationType, out *ResponseOutcome) {
	log := r.opts.Logger
	if log == nil {
		return
	}
	elapsed := time.Since(r.started)
	if !r.failed && elapsed < r.opts.LatencyThreshold {
		return
	}
	log.Info("operation diagnostics",
		logging.String("operation_type", opType.String()),
		logging.Int("status_code", out.StatusCode),
		logging.Int("sub_status_code", out.SubStatusCode),
		logging.String("regions", out.Diagnostics.ContactedRegions()),
		logging.String("diagnostics", out.Diagnostics.String()),
		logging.Int64("elapsed_ms", elapsed.Milliseconds()),
	)
}
