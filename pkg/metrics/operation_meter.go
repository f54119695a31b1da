package metrics

import (
	"strconv"
	"time"
)

// OperationMeter records the metric counterpart of each traced operation:
// count, latency and request charge, labeled by operation name and status
// code.
type OperationMeter struct {
	operations Counter
	duration   Histogram
	charge     Histogram
}

func NewOperationMeter(m Meter) *OperationMeter {
	return &OperationMeter{
		operations: m.Counter("docstore_operations_total", MetricOpt{
			Help:      "Client operations by operation name and status code.",
			LabelKeys: []string{"operation", "status"},
		}),
		duration: m.Histogram("docstore_operation_duration_seconds", MetricOpt{
			Help:      "End-to-end client operation latency.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			LabelKeys: []string{"operation"},
		}),
		charge: m.Histogram("docstore_operation_request_charge", MetricOpt{
			Help:      "Request charge billed per operation.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
			LabelKeys: []string{"operation"},
		}),
	}
}

func (m *OperationMeter) RecordOperation(operation string, statusCode int, charge float64, elapsed time.Duration) {
	opLabel := Label{Key: "operation", Value: operation}
	m.operations.Inc(1,
		opLabel,
		Label{Key: "status", Value: strconv.Itoa(statusCode)},
	)
	m.duration.Observe(elapsed.Seconds(), opLabel)
	m.charge.Observe(charge, opLabel)
}
