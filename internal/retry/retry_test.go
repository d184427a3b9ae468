package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
)

func fastPolicy(attempts int) Policy {
	return Policy{Attempts: attempts, BaseDelay: time.Millisecond, Multiplier: 2.0}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesOnConflictThenSucceeds(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return apperrors.ErrConcurrencyConflict
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsBudget(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls++
		return apperrors.ErrConcurrencyConflict
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConcurrencyExhausted))
	assert.Equal(t, 3, calls)
}

func TestDo_NonRetryableErrorPropagatesImmediately(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		calls++
		return apperrors.ErrInvalidOperation
	})

	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidOperation))
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Do(ctx, Policy{Attempts: 5, BaseDelay: time.Second, Multiplier: 2.0},
		func(ctx context.Context) error {
			calls++
			cancel()
			return apperrors.ErrConcurrencyConflict
		})

	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ZeroAttemptsNormalizedToOne(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 0}, func(ctx context.Context) error {
		calls++
		return apperrors.ErrConcurrencyConflict
	})

	assert.True(t, apperrors.Is(err, apperrors.ErrConcurrencyExhausted))
	assert.Equal(t, 1, calls)
}
