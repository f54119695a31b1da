package implementation

import (
	"context"

	"github.com/jt828/docstore-tracing/pkg/retry"
	goretry "github.com/sethvargo/go-retry"
)

type goRetry struct {
	backoff     func() goretry.Backoff
	retryableFn func(err error) bool
}

func NewRetry(maxRetries uint64, opts ...retry.Option) retry.Retry {
	cfg := retry.ApplyOptions(opts...)

	return &goRetry{
		// Backoff state is per Execute, so one Retry value serves many
		// operations.
		backoff: func() goretry.Backoff {
			return goretry.WithMaxRetries(maxRetries, goretry.NewExponential(cfg.Interval))
		},
		retryableFn: cfg.RetryableFn,
	}
}

func (r *goRetry) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return goretry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		if r.retryableFn != nil && !r.retryableFn(err) {
			return err
		}

		return goretry.RetryableError(err)
	})
}
