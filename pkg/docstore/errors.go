package docstore

import (
	"fmt"
	"time"
)

// StatusCoded is the capability shared by every backend error that carries a
// protocol status pair. Telemetry matches on this interface rather than on
// concrete types, so new error kinds are picked up automatically.
type StatusCoded interface {
	error
	StatusCode() int
	SubStatusCode() int
}

// StatusError is a response the backend rejected with a status pair. Some
// pairs (expected not-found, conflict, precondition) are normal protocol
// signals rather than real failures.
type StatusError struct {
	Code       int
	SubStatus  int
	ActivityID string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("docstore: %s (status=%d substatus=%d)", e.Message, e.Code, e.SubStatus)
	}
	return fmt.Sprintf("docstore: status=%d substatus=%d", e.Code, e.SubStatus)
}

func (e *StatusError) StatusCode() int    { return e.Code }
func (e *StatusError) SubStatusCode() int { return e.SubStatus }

// TimeoutError is returned when an operation exceeded its client-side budget
// before the backend answered.
type TimeoutError struct {
	Op      string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("docstore: %s timed out after %s", e.Op, e.Elapsed)
}
