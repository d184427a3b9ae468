// Package retry provides a bounded retry loop with exponential backoff for
// optimistic-concurrency conflicts. The policy is explicit and injectable so
// retry behavior is visible and unit-testable.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
)

// Policy describes a bounded exponential backoff.
type Policy struct {
	// Attempts is the total number of tries, including the first one.
	Attempts int
	// BaseDelay is the delay before the second attempt.
	BaseDelay time.Duration
	// Multiplier grows the delay after each failed attempt.
	Multiplier float64
}

// DefaultPolicy mirrors the retry behavior applied to aggregate mutations:
// 3 attempts, 100ms base delay, doubling per attempt.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, BaseDelay: 100 * time.Millisecond, Multiplier: 2.0}
}

// Do runs fn until it succeeds, returns a non-retryable error, or the attempt
// budget is exhausted. Only ErrConcurrencyConflict is considered retryable;
// every other error propagates immediately. When the budget runs out the last
// conflict is surfaced as ErrConcurrencyExhausted.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.BaseDelay
	bo.Multiplier = policy.Multiplier
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()

	var lastErr error
	for attempt := 0; attempt < policy.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(bo.NextBackOff()):
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !apperrors.Is(lastErr, apperrors.ErrConcurrencyConflict) {
			return lastErr
		}
	}

	return apperrors.Wrap(apperrors.ErrConcurrencyExhausted, lastErr.Error())
}
