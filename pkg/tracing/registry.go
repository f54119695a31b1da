package tracing

import (
	"errors"

	"github.com/jt828/docstore-tracing/pkg/docstore"
)

// ErrorHandler writes category-specific attributes for a matched error.
// A handler owns any message it wants recorded; the recorder only falls back
// to a generic exception.message for unmatched errors.
type ErrorHandler func(err error, scope Scope)

type registryEntry struct {
	matches func(error) bool
	record  ErrorHandler
}

// ErrorRegistry maps error categories to attribute-recording handlers.
// Entries are checked in registration order and the first match wins, so
// register the most specific category first. The registry is a plain value
// passed to each recorder; there is no process-wide instance.
type ErrorRegistry struct {
	entries []registryEntry
}

func NewErrorRegistry() *ErrorRegistry {
	return &ErrorRegistry{}
}

func (r *ErrorRegistry) Register(matches func(error) bool, record ErrorHandler) {
	r.entries = append(r.entries, registryEntry{matches: matches, record: record})
}

// Apply runs the handler of the first matching entry and reports whether any
// entry matched.
func (r *ErrorRegistry) Apply(err error, scope Scope) bool {
	if r == nil || err == nil {
		return false
	}
	for _, e := range r.entries {
		if e.matches(err) {
			e.record(err, scope)
			return true
		}
	}
	return false
}

// Match builds a matcher for the error type T via errors.As. T may be a
// concrete type or a capability interface; an interface matches every
// implementing type, which is how base-category registration covers
// subtypes.
func Match[T error]() func(error) bool {
	return func(err error) bool {
		var target T
		return errors.As(err, &target)
	}
}

// DefaultErrorRegistry covers the error categories the client emits.
// StatusError carries an activity id, so it gets its own entry ahead of the
// broader StatusCoded category.
func DefaultErrorRegistry() *ErrorRegistry {
	r := NewErrorRegistry()

	r.Register(Match[*docstore.StatusError](), func(err error, scope Scope) {
		var se *docstore.StatusError
		if !errors.As(err, &se) {
			return
		}
		scope.SetAttributes(
			StatusCodeKey.Int(se.Code),
			SubStatusCodeKey.Int(se.SubStatus),
			ActivityIDKey.String(se.ActivityID),
			ExceptionMessageKey.String(se.Error()),
		)
	})

	r.Register(Match[docstore.StatusCoded](), func(err error, scope Scope) {
		var sc docstore.StatusCoded
		if !errors.As(err, &sc) {
			return
		}
		scope.SetAttributes(
			StatusCodeKey.Int(sc.StatusCode()),
			SubStatusCodeKey.Int(sc.SubStatusCode()),
			ExceptionMessageKey.String(sc.Error()),
		)
	})

	r.Register(Match[*docstore.TimeoutError](), func(err error, scope Scope) {
		scope.SetAttributes(ExceptionMessageKey.String(err.Error()))
	})

	return r
}
