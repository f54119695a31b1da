package tracing_test

import (
	"testing"

	"github.com/jt828/docstore-tracing/pkg/tracing"
	"github.com/stretchr/testify/assert"
)

func TestIsSuccessful(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		subStatus int
		want      bool
	}{
		{"ok", 200, 0, true},
		{"created", 201, 0, true},
		{"no content", 204, 0, true},
		{"not modified", 304, 0, true},
		{"expected not found", 404, 0, true},
		{"expected conflict", 409, 0, true},
		{"expected precondition failure", 412, 0, true},
		{"not found with sub-status", 404, 1003, false},
		{"conflict with sub-status", 409, 3206, false},
		{"precondition failure with sub-status", 412, 1, false},
		{"bad request", 400, 0, false},
		{"forbidden", 403, 0, false},
		{"request timeout", 408, 0, false},
		{"throttled", 429, 3200, false},
		{"server error", 500, 0, false},
		{"service unavailable", 503, 0, false},
		{"success ignores sub-status", 200, 9999, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tracing.IsSuccessful(tt.status, tt.subStatus))
		})
	}
}
