package common

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// RetryableFunc is one attempt of an operation.
type RetryableFunc func() error

// RetryPolicy describes how Do backs off between attempts.
type RetryPolicy struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
	retryIf      func(error) bool
}

// Option adjusts a RetryPolicy. Out-of-range values keep the default.
type Option func(*RetryPolicy)

// WithMaxRetries sets how many attempts follow the first one (default 3).
func WithMaxRetries(n int) Option {
	return func(p *RetryPolicy) {
		if n >= 0 {
			p.maxRetries = n
		}
	}
}

// WithInitialDelay sets the pause before the first retry (default 1s).
func WithInitialDelay(d time.Duration) Option {
	return func(p *RetryPolicy) {
		if d > 0 {
			p.initialDelay = d
		}
	}
}

// WithMaxDelay caps the pause between attempts (default 30s).
func WithMaxDelay(d time.Duration) Option {
	return func(p *RetryPolicy) {
		if d > 0 {
			p.maxDelay = d
		}
	}
}

// WithMultiplier sets the backoff growth factor (default 2).
func WithMultiplier(m float64) Option {
	return func(p *RetryPolicy) {
		if m > 0 {
			p.multiplier = m
		}
	}
}

// WithRetryIf limits retries to errors accepted by retryable; others are returned at once.
func WithRetryIf(retryable func(error) bool) Option {
	return func(p *RetryPolicy) {
		p.retryIf = retryable
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that Do gives up immediately and returns err unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func defaultConfig() *RetryPolicy {
	return &RetryPolicy{
		maxRetries:   3,
		initialDelay: time.Second,
		maxDelay:     30 * time.Second,
		multiplier:   2,
	}
}

// Do calls fn until it succeeds, the retries are used up, fn returns a non-retryable error,
// or ctx is done. Exhausted retries wrap the last error; cancellation wraps ctx.Err().
//
//	err := common.Do(ctx, func() error {
//	    _, _, err := client.Search.Repositories(ctx, q, opts)
//	    return err
//	}, common.WithMaxRetries(2), common.WithRetryIf(retryable))
func Do(ctx context.Context, fn RetryableFunc, opts ...Option) error {
	if fn == nil {
		return errors.New("retry: function cannot be nil")
	}
	p := defaultConfig()
	for _, opt := range opts {
		opt(p)
	}

	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if p.retryIf != nil && !p.retryIf(err) {
			return err
		}
		if attempt == p.maxRetries {
			return fmt.Errorf("retry failed after %d attempts: %w", attempt+1, err)
		}

		if ctx.Err() != nil {
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt+1, ctx.Err())
		}
		timer := time.NewTimer(calculateDelay(attempt+1, p.initialDelay, p.maxDelay, p.multiplier))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted during backoff (attempt %d/%d): %w", attempt+1, p.maxRetries, ctx.Err())
		case <-timer.C:
		}
	}
}

// calculateDelay returns initialDelay·multiplier^(attempt-1), capped at maxDelay.
func calculateDelay(attempt int, initialDelay, maxDelay time.Duration, multiplier float64) time.Duration {
	delay := float64(initialDelay) * math.Pow(multiplier, float64(attempt-1))
	if delay > float64(maxDelay) {
		return maxDelay
	}
	return time.Duration(delay)
}
