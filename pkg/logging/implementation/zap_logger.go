package implementation

import (
	"github.com/jt828/docstore-tracing/pkg/logging"
	"go.uber.org/zap"
)

type zapLogger struct {
	l *zap.Logger
}

func NewZapLogger() (logging.Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &zapLogger{l: l}, nil
}

// NewNopLogger discards everything. Used as the default diagnostics sink and
// in tests that do not assert on log output.
func NewNopLogger() logging.Logger {
	return &zapLogger{l: zap.NewNop()}
}

func toZap(fields []logging.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, len(fields))

	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}

	return out
}

func (z *zapLogger) Debug(msg string, fields ...logging.Field) {
	z.l.Debug(msg, toZap(fields)...)
}

func (z *zapLogger) Info(msg string, fields ...logging.Field) {
	z.l.Info(msg, toZap(fields)...)
}

func (z *zapLogger) Warn(msg string, fields ...logging.Field) {
	z.l.Warn(msg, toZap(fields)...)
}

func (z *zapLogger) Error(msg string, fields ...logging.Field) {
	z.l.Error(msg, toZap(fields)...)
}

func (z *zapLogger) With(fields ...logging.Field) logging.Logger {
	return &zapLogger{
		l: z.l.With(toZap(fields)...),
	}
}
