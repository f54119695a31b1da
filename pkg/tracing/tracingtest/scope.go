package tracingtest

import "go.opentelemetry.io/otel/attribute"

// CountingScope is a stub tracing.Scope that counts every interaction and
// keeps the last value written per key. Its zero value is a disabled scope;
// set Enabled for the traced paths.
type CountingScope struct {
	Enabled bool

	Started int
	Ended   int
	Failed  int
	Writes  int
	LastErr error
	Attrs   map[attribute.Key]attribute.Value
}

func (s *CountingScope) Start() {
	s.Started++
}

func (s *CountingScope) IsEnabled() bool {
	return s.Enabled
}

func (s *CountingScope) SetAttributes(kvs ...attribute.KeyValue) {
	if s.Attrs == nil {
		s.Attrs = make(map[attribute.Key]attribute.Value)
	}
	for _, kv := range kvs {
		s.Attrs[kv.Key] = kv.Value
	}
	s.Writes += len(kvs)
}

func (s *CountingScope) MarkFailed(err error) {
	s.Failed++
	s.LastErr = err
}

func (s *CountingScope) End() {
	s.Ended++
}

// CountingFallback is a stub tracing.FallbackHandle.
type CountingFallback struct {
	StartedWith string
	Started     int
	Stopped     int
}

func (f *CountingFallback) Start(name string) {
	f.Started++
	f.StartedWith = name
}

func (f *CountingFallback) Stop() {
	f.Stopped++
}
