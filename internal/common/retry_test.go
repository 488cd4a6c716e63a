package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	tests := []struct {
		name             string
		failUntilN       int
		maxRetries       int
		expectedAttempts int
		shouldSucceed    bool
	}{
		{name: "success on second attempt", failUntilN: 2, maxRetries: 3, expectedAttempts: 2, shouldSucceed: true},
		{name: "success on last retry", failUntilN: 4, maxRetries: 3, expectedAttempts: 4, shouldSucceed: true},
		{name: "fail all attempts", failUntilN: 10, maxRetries: 3, expectedAttempts: 4, shouldSucceed: false},
		{name: "zero retries", failUntilN: 10, maxRetries: 0, expectedAttempts: 1, shouldSucceed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := Do(context.Background(), func() error {
				attempts++
				if attempts < tt.failUntilN {
					return errors.New("temporary failure")
				}
				return nil
			}, WithMaxRetries(tt.maxRetries), WithInitialDelay(time.Millisecond))

			assert.Equal(t, tt.expectedAttempts, attempts)
			if tt.shouldSucceed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	attempts := 0
	err := Do(ctx, func() error {
		attempts++
		return errors.New("always fails")
	}, WithInitialDelay(100*time.Millisecond), WithMaxRetries(5))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, attempts, 1)
}

func TestDo_ContextTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Do(ctx, func() error {
		return errors.New("always fails")
	}, WithInitialDelay(30*time.Millisecond), WithMaxRetries(10))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDo_NilFunction(t *testing.T) {
	err := Do(context.Background(), nil)
	assert.EqualError(t, err, "retry: function cannot be nil")
}

func TestDo_ErrorWrapping(t *testing.T) {
	originalErr := errors.New("original error")

	err := Do(context.Background(), func() error {
		return originalErr
	}, WithMaxRetries(2), WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.ErrorIs(t, err, originalErr)
	assert.Contains(t, err.Error(), "retry failed after 3 attempts")
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	notFound := errors.New("404 not found")
	attempts := 0

	err := Do(context.Background(), func() error {
		attempts++
		return Permanent(notFound)
	}, WithMaxRetries(5), WithInitialDelay(time.Millisecond))

	assert.Equal(t, 1, attempts)
	assert.Same(t, notFound, err)
	assert.Nil(t, Permanent(nil))
}

func TestDo_RetryIf(t *testing.T) {
	retryable := errors.New("rate limited")
	fatal := errors.New("bad credentials")

	attempts := 0
	err := Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return retryable
		}
		return fatal
	},
		WithMaxRetries(5),
		WithInitialDelay(time.Millisecond),
		WithRetryIf(func(err error) bool { return errors.Is(err, retryable) }),
	)

	assert.Equal(t, 3, attempts)
	assert.Same(t, fatal, err)
}

func TestDo_InvalidOptionsFallBackToDefaults(t *testing.T) {
	err := Do(context.Background(), func() error { return nil },
		WithMaxRetries(-1),
		WithInitialDelay(-1),
		WithMaxDelay(-1),
		WithMultiplier(-1),
	)
	assert.NoError(t, err)

	cfg := defaultConfig()
	for _, opt := range []Option{WithMaxRetries(-1), WithInitialDelay(-1), WithMaxDelay(-1), WithMultiplier(-1)} {
		opt(cfg)
	}
	assert.Equal(t, defaultConfig().maxRetries, cfg.maxRetries)
	assert.Equal(t, time.Second, cfg.initialDelay)
}

func TestCalculateDelay(t *testing.T) {
	tests := []struct {
		name       string
		attempt    int
		maxDelay   time.Duration
		multiplier float64
		expected   time.Duration
	}{
		{name: "first retry", attempt: 1, maxDelay: time.Second, multiplier: 2, expected: 100 * time.Millisecond},
		{name: "third retry", attempt: 3, maxDelay: time.Second, multiplier: 2, expected: 400 * time.Millisecond},
		{name: "capped at max delay", attempt: 5, maxDelay: 500 * time.Millisecond, multiplier: 2, expected: 500 * time.Millisecond},
		{name: "multiplier of 1.5", attempt: 2, maxDelay: time.Second, multiplier: 1.5, expected: 150 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calculateDelay(tt.attempt, 100*time.Millisecond, tt.maxDelay, tt.multiplier))
		})
	}
}

func TestIsCode(t *testing.T) {
	cause := errors.New("connection refused")
	inner := WrapError(ErrCodeCache, "cache get failed", cause)
	outer := WrapError(ErrCodeInternal, "recommend failed", inner)

	assert.True(t, IsCode(outer, ErrCodeInternal))
	assert.True(t, IsCode(outer, ErrCodeCache))
	assert.False(t, IsCode(outer, ErrCodeDatabase))
	assert.False(t, IsCode(cause, ErrCodeCache))
	assert.False(t, IsCode(nil, ErrCodeCache))
	assert.ErrorIs(t, outer, cause)

	assert.Equal(t, "[INVALID_INPUT] unknown goal", NewError(ErrCodeInvalidInput, "unknown goal").Error())
	assert.Equal(t, "[CACHE_ERROR] cache get failed: connection refused", inner.Error())
}

func BenchmarkDo_Success(b *testing.B) {
	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		_ = Do(ctx, func() error { return nil })
	}
}
