package interceptor

import (
	"context"
	"errors"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/jt828/docstore-tracing/pkg/docstore"
	"github.com/jt828/docstore-tracing/pkg/logging"
	"github.com/jt828/docstore-tracing/pkg/metrics"
	"github.com/jt828/docstore-tracing/pkg/retry"
	"github.com/jt828/docstore-tracing/pkg/tracing"
	"github.com/jt828/docstore-tracing/pkg/tracing/implementation"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Deps carries the collaborators one traced client shares across calls.
type Deps struct {
	Tracer   trace.Tracer
	Client   docstore.ClientContext
	Registry *tracing.ErrorRegistry
	Meter    *metrics.OperationMeter
	Retry    retry.Retry
	Log      logging.Logger

	// Describe maps a full RPC method name to the operation it represents.
	// Defaults to the bare method name with no database or container.
	Describe func(fullMethod string) tracing.OperationRequest
}

// TracingUnaryClientInterceptor wraps every unary RPC in an operation
// recorder. Each retry attempt records its own outcome, so the span reflects
// only the final attempt; the terminal error, if any, is classified through
// the registry.
func TracingUnaryClientInterceptor(d Deps) grpc.UnaryClientInterceptor {
	describe := d.Describe
	if describe == nil {
		describe = describeMethod
	}

	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		opReq := describe(method)
		scope := implementation.NewScope(ctx, d.Tracer, spanName(opReq), d.Client.Mode)
		rec := tracing.NewRecorder(scope, opReq, d.Client, d.Registry, tracing.WithLogger(d.Log))
		defer rec.End()
		callCtx := implementation.ScopeContext(scope, ctx)

		started := time.Now()
		correlation := uuid.NewString()
		var last tracing.ResponseOutcome

		attempt := func(ctx context.Context) error {
			err := invoker(ctx, method, req, reply, cc, opts...)
			last = outcomeFor(err, opReq.OperationType, correlation)
			rec.RecordResponse(last)
			return err
		}

		var err error
		if d.Retry != nil {
			err = d.Retry.Execute(callCtx, attempt)
		} else {
			err = attempt(callCtx)
		}
		if err != nil {
			rec.MarkFailed(toStatusError(err))
		}

		if d.Meter != nil {
			d.Meter.RecordOperation(opReq.OperationName, last.StatusCode,
				last.RequestCharge.InexactFloat64(), time.Since(started))
		}
		return err
	}
}

func describeMethod(fullMethod string) tracing.OperationRequest {
	return tracing.OperationRequest{OperationName: path.Base(fullMethod)}
}

func spanName(req tracing.OperationRequest) string {
	if req.ContainerName == "" {
		return req.OperationName
	}
	return req.OperationName + " " + req.ContainerName
}

func outcomeFor(err error, opType docstore.OperationType, correlation string) tracing.ResponseOutcome {
	out := tracing.ResponseOutcome{
		StatusCode:           200,
		OperationType:        opType,
		ActivityID:           uuid.NewString(),
		CorrelatedActivityID: correlation,
	}
	if err == nil {
		return out
	}

	var sc docstore.StatusCoded
	if errors.As(err, &sc) {
		out.StatusCode = sc.StatusCode()
		out.SubStatusCode = sc.SubStatusCode()
		return out
	}
	out.StatusCode = httpStatus(status.Code(err))
	return out
}

// toStatusError normalizes a transport error into the domain error taxonomy
// so registry matching sees status pairs instead of grpc codes.
func toStatusError(err error) error {
	var sc docstore.StatusCoded
	if errors.As(err, &sc) {
		return err
	}
	s, ok := status.FromError(err)
	if !ok {
		return err
	}
	return &docstore.StatusError{
		Code:    httpStatus(s.Code()),
		Message: s.Message(),
	}
}

// RetryableStatus accepts the transient transport failures worth retrying.
func RetryableStatus(err error) bool {
	switch httpStatus(status.Code(err)) {
	case 408, 429, 503:
		return true
	}
	return false
}

func httpStatus(c codes.Code) int {
	switch c {
	case codes.OK:
		return 200
	case codes.InvalidArgument:
		return 400
	case codes.Unauthenticated:
		return 401
	case codes.PermissionDenied:
		return 403
	case codes.NotFound:
		return 404
	case codes.DeadlineExceeded:
		return 408
	case codes.AlreadyExists:
		return 409
	case codes.FailedPrecondition:
		return 412
	case codes.ResourceExhausted:
		return 429
	case codes.Unavailable:
		return 503
	default:
		return 500
	}
}
