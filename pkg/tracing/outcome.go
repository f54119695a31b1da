package tracing

import (
	"github.com/jt828/docstore-tracing/pkg/docstore"
	"github.com/shopspring/decimal"
)

// ResponseOutcome is what the client captured from one response. The recorder
// keeps at most one and turns it into span attributes at finalization.
type ResponseOutcome struct {
	StatusCode            int
	SubStatusCode         int
	RequestContentLength  int64
	ResponseContentLength int64
	ItemCount             int64
	RequestCharge         decimal.Decimal
	ActivityID            string
	CorrelatedActivityID  string
	OperationType         docstore.OperationType
	Diagnostics           *docstore.Diagnostics
}

// IsSuccessful decides success or failure for a status pair. It, not the raw
// status code, is the sole authority for span status: 404/0, 409/0 and 412/0
// are expected protocol signals (not-found probe, conflict check, failed
// precondition) and count as success despite the non-2xx code.
func IsSuccessful(statusCode, subStatusCode int) bool {
	if statusCode >= 200 && statusCode < 400 {
		return true
	}
	if subStatusCode != 0 {
		return false
	}
	switch statusCode {
	case 404, 409, 412:
		return true
	}
	return false
}
