package http

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig bounds the retry loop around a provider call.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetryConfig returns the retry policy used when config is silent.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
	}
}

// ExponentialBackoff computes the wait before the given attempt:
// min(initial * multiplier^attempt, max), with ±25% jitter so concurrent
// runs against the same endpoint do not retry in lockstep.
func ExponentialBackoff(attempt int, config RetryConfig) time.Duration {
	backoff := float64(config.InitialBackoff) * math.Pow(config.Multiplier, float64(attempt))
	if backoff > float64(config.MaxBackoff) {
		backoff = float64(config.MaxBackoff)
	}

	jitterRange := 0.25 * backoff
	result := backoff + (rand.Float64()*2*jitterRange - jitterRange)

	if result > float64(config.MaxBackoff) {
		result = float64(config.MaxBackoff)
	}
	if result < 0 {
		result = 0
	}
	return time.Duration(result)
}

// ShouldRetry reports whether the error is worth another attempt. Only
// typed errors flagged retryable qualify; anything else fails fast.
func ShouldRetry(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}
	return false
}

// Operation is one attempt of a retryable call.
type Operation func(ctx context.Context) error

// RetryWithBackoff runs the operation until it succeeds, fails with a
// non-retryable error, exhausts MaxRetries, or the context is done.
func RetryWithBackoff(ctx context.Context, operation Operation, config RetryConfig) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !ShouldRetry(err) || attempt >= config.MaxRetries {
			return err
		}

		select {
		case <-time.After(ExponentialBackoff(attempt, config)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}
