package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	err := Wrap(ErrConcurrencyConflict, "stock level write")
	assert.Error(t, err)
	assert.True(t, Is(err, ErrConcurrencyConflict))
	assert.Equal(t, "stock level write: concurrency conflict", err.Error())
}

func TestWrap_NilError(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
}

func TestWrap_PreservesChainThroughLayers(t *testing.T) {
	inner := Wrap(ErrInvalidOperation, "insufficient stock")
	outer := Wrap(inner, "reserve failed")

	assert.True(t, Is(outer, ErrInvalidOperation))
	assert.Equal(t, "reserve failed: insufficient stock: invalid operation", outer.Error())
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrInvalidOperation,
		ErrConcurrencyConflict,
		ErrConcurrencyExhausted,
		ErrSerializationFailure,
		ErrDeliveryFailure,
		ErrNoTransaction,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
