package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_Success(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, WithInitialDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_MaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	persistent := errors.New("connection refused")

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return persistent
	}, WithMaxRetries(2), WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.ErrorIs(t, err, persistent)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestDo_FatalNotRetried(t *testing.T) {
	t.Parallel()
	attempts := 0
	authErr := errors.New("unable to authenticate")

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return Fatal(authErr)
	}, WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, authErr)
	assert.True(t, IsFatal(err))
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := Do(ctx, func(context.Context) error {
		attempts++
		cancel()
		return errors.New("connection refused")
	}, WithInitialDelay(time.Hour))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestDo_OnRetryAndBackoff(t *testing.T) {
	t.Parallel()
	var delays []time.Duration
	var attemptsSeen []int

	_ = Do(context.Background(), func(context.Context) error {
		return errors.New("refused")
	},
		WithMaxRetries(4),
		WithInitialDelay(time.Millisecond),
		WithMultiplier(2),
		WithMaxDelay(3*time.Millisecond),
		WithOnRetry(func(attempt int, _ error, delay time.Duration) {
			attemptsSeen = append(attemptsSeen, attempt)
			delays = append(delays, delay)
		}),
	)

	assert.Equal(t, []int{1, 2, 3, 4}, attemptsSeen)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond, 3 * time.Millisecond}, delays)
}

func TestFatal_Nil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Fatal(nil))
	assert.False(t, IsFatal(errors.New("plain")))
}
