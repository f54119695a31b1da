package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// DBSystemValue is the db.system constant stamped on every operation span.
const DBSystemValue = "docstore"

// Attribute keys an operation-level span may carry. This list is a wire
// surface: downstream consumers key off these exact names, so renaming or
// extending it is a versioned change. Standard keys come from semconv, the
// rest live under the db.docstore.* namespace.
const (
	NamespaceKey             = attribute.Key("docstore.namespace")
	SchemaURLKey             = attribute.Key("schema.url")
	SpanKindKey              = attribute.Key("span.kind")
	DBSystemKey              = semconv.DBSystemKey
	DBNameKey                = semconv.DBNameKey
	DBOperationKey           = semconv.DBOperationKey
	NetPeerNameKey           = semconv.NetPeerNameKey
	ClientIDKey              = attribute.Key("db.docstore.client_id")
	MachineIDKey             = attribute.Key("db.docstore.machine_id")
	UserAgentKey             = attribute.Key("user_agent.original")
	ConnectionModeKey        = attribute.Key("db.docstore.connection_mode")
	OperationTypeKey         = attribute.Key("db.docstore.operation_type")
	ContainerKey             = attribute.Key("db.docstore.container")
	RequestContentLengthKey  = attribute.Key("db.docstore.request_content_length")
	ResponseContentLengthKey = attribute.Key("db.docstore.response_content_length")
	StatusCodeKey            = attribute.Key("db.docstore.status_code")
	SubStatusCodeKey         = attribute.Key("db.docstore.sub_status_code")
	RequestChargeKey         = attribute.Key("db.docstore.request_charge")
	RegionsContactedKey      = attribute.Key("db.docstore.regions_contacted")
	RetryCountKey            = attribute.Key("db.docstore.retry_count")
	ItemCountKey             = attribute.Key("db.docstore.item_count")
	RequestDiagnosticsKey    = attribute.Key("db.docstore.request_diagnostics")
	ExceptionTypeKey         = semconv.ExceptionTypeKey
	ExceptionMessageKey      = semconv.ExceptionMessageKey
	ExceptionStacktraceKey   = semconv.ExceptionStacktraceKey
	ActivityIDKey            = attribute.Key("db.docstore.activity_id")
	CorrelatedActivityIDKey  = attribute.Key("db.docstore.correlated_activity_id")
)

var allowedKeys = []attribute.Key{
	NamespaceKey,
	SchemaURLKey,
	SpanKindKey,
	DBSystemKey,
	DBNameKey,
	DBOperationKey,
	NetPeerNameKey,
	ClientIDKey,
	MachineIDKey,
	UserAgentKey,
	ConnectionModeKey,
	OperationTypeKey,
	ContainerKey,
	RequestContentLengthKey,
	ResponseContentLengthKey,
	StatusCodeKey,
	SubStatusCodeKey,
	RequestChargeKey,
	RegionsContactedKey,
	RetryCountKey,
	ItemCountKey,
	RequestDiagnosticsKey,
	ExceptionTypeKey,
	ExceptionMessageKey,
	ExceptionStacktraceKey,
	ActivityIDKey,
	CorrelatedActivityIDKey,
}

var allowedKeySet = func() map[attribute.Key]struct{} {
	s := make(map[attribute.Key]struct{}, len(allowedKeys))
	for _, k := range allowedKeys {
		s[k] = struct{}{}
	}
	return s
}()

// AllowedKeys returns the closed attribute vocabulary, in declaration order.
func AllowedKeys() []attribute.Key {
	out := make([]attribute.Key, len(allowedKeys))
	copy(out, allowedKeys)
	return out
}

// IsAllowedKey reports whether k belongs to the vocabulary.
func IsAllowedKey(k attribute.Key) bool {
	_, ok := allowedKeySet[k]
	return ok
}
