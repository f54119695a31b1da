// Package docstore holds the domain types shared by the client and its
// telemetry instrumentation: operation classification, connection modes,
// client identity and per-request diagnostics.
package docstore

// OperationType classifies a client operation by its effect on the store.
type OperationType int

const (
	OperationInvalid OperationType = iota
	OperationCreate
	OperationRead
	OperationReplace
	OperationUpsert
	OperationDelete
	OperationQuery
	OperationBatch
	OperationHead
)

var operationTypeNames = map[OperationType]string{
	OperationInvalid: "Invalid",
	OperationCreate:  "Create",
	OperationRead:    "Read",
	OperationReplace: "Replace",
	OperationUpsert:  "Upsert",
	OperationDelete:  "Delete",
	OperationQuery:   "Query",
	OperationBatch:   "Batch",
	OperationHead:    "Head",
}

func (t OperationType) String() string {
	if name, ok := operationTypeNames[t]; ok {
		return name
	}
	return "Invalid"
}

// Valid reports whether t carries a usable classification.
func (t OperationType) Valid() bool {
	_, ok := operationTypeNames[t]
	return ok && t != OperationInvalid
}

// ConnectionMode is how the client reaches the store.
type ConnectionMode string

const (
	ConnectionModeGateway ConnectionMode = "gateway"
	ConnectionModeDirect  ConnectionMode = "direct"
)

// ClientContext identifies one client instance. It is built once at startup
// and shared by every operation the client issues.
type ClientContext struct {
	ClientID  string
	MachineID string
	UserAgent string
	Endpoint  string
	Mode      ConnectionMode
}
