package github

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/hashicorp/go-hclog"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
)

// MaxAttempts is the total number of tries for every API operation.
const MaxAttempts = 3

// newBackOff returns delays of base, 2*base, 4*base... capped at MaxAttempts
// tries. Jitter is disabled so the schedule is predictable.
func newBackOff(ctx context.Context, base time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = base * (1 << MaxAttempts)
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, MaxAttempts-1), ctx)
}

// withRetry runs fn until it succeeds or MaxAttempts is reached. The error of
// the final attempt is returned.
func withRetry(ctx context.Context, logger hclog.Logger, base time.Duration, op string, fn func() error) error {
	attempt := 0
	operation := func() error {
		attempt++
		return fn()
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("GitHub API call failed, retrying",
			"operation", op,
			"attempt", attempt,
			"max_attempts", MaxAttempts,
			"retry_in", next,
			"error", apperrors.Sanitize(err.Error()),
		)
	}
	return backoff.RetryNotify(operation, newBackOff(ctx, base), notify)
}
