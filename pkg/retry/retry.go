package retry

import (
	"context"
	"time"
)

// Retry re-executes fn until it succeeds, the attempt budget runs out, or
// ctx is done. fn receives the attempt context.
type Retry interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

type Config struct {
	RetryableFn func(err error) bool
	Interval    time.Duration
}

type Option func(*Config)

// WithRetryable limits retries to errors fn accepts. Without it every error
// is retried.
func WithRetryable(fn func(err error) bool) Option {
	return func(c *Config) {
		c.RetryableFn = fn
	}
}

func WithInterval(d time.Duration) Option {
	return func(c *Config) {
		c.Interval = d
	}
}

func ApplyOptions(opts ...Option) *Config {
	c := &Config{Interval: 10 * time.Millisecond}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
