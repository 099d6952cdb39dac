// Package retry runs an operation again with exponential backoff and jitter
// while the returned error is classified as retryable.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

var DefaultPolicy = Policy{
	MaxAttempts: 5,
	BaseDelay:   5 * time.Millisecond,
	MaxDelay:    200 * time.Millisecond,
}

// Do calls fn until it succeeds, returns an error shouldRetry rejects, the
// attempts run out or ctx is done. The last error from fn is returned.
func Do(ctx context.Context, policy Policy, shouldRetry func(error) bool, fn func(ctx context.Context) error) error {
	attempts := max(policy.MaxAttempts, 1)

	var lastErr error
	operation := func() error {
		lastErr = fn(ctx)
		if lastErr != nil && !shouldRetry(lastErr) {
			return backoff.Permanent(lastErr)
		}

		return lastErr
	}

	b := backoff.WithContext(backoff.WithMaxRetries(newBackOff(policy), uint64(attempts-1)), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}

	return nil
}

// newBackOff doubles the delay from BaseDelay up to MaxDelay. Each wait is
// drawn from [0, 2*interval].
func newBackOff(policy Policy) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = max(policy.BaseDelay, 0)
	b.MaxInterval = policy.MaxDelay
	if b.MaxInterval <= 0 {
		b.MaxInterval = backoff.DefaultMaxInterval
	}
	b.Multiplier = 2
	b.RandomizationFactor = 1
	b.MaxElapsedTime = 0
	b.Reset()

	return b
}
