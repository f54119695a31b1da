package tracing

import "go.opentelemetry.io/otel/attribute"

// Scope is the span handle the recorder drives. Implementations bundle span
// creation, attribute writes and closing behind an enabled gate; the backend
// behind it is responsible for its own thread safety.
type Scope interface {
	Start()
	IsEnabled() bool
	SetAttributes(kvs ...attribute.KeyValue)
	// MarkFailed sets the span status to error. err may be nil when the
	// failure was classified from a status pair rather than an exception.
	MarkFailed(err error)
	End()
}

// FallbackHandle is the bare handle used when no listener exists at any
// level. It keeps causal linkage for descendant spans without paying for
// attribute work.
type FallbackHandle interface {
	Start(name string)
	Stop()
}
