// Package retry provides bounded retry with exponential backoff for calls to
// external services. The claude client, the whisper API backend, and email
// delivery all share the same policy so backoff behaviour stays uniform.
package retry

import (
	"context"
	"errors"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// Policy controls how many attempts are made and how long to wait between them.
// The zero value is normalized to the defaults (3 attempts, 2s base delay).
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// Sleeper overrides how waits are performed (useful for tests).
	Sleeper func(time.Duration)
}

// Default returns the policy used across the pipeline: three attempts with
// delays of base, then base doubled, capped at MaxDelay.
func Default() Policy {
	return Policy{
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
		MaxDelay:    defaultMaxDelay,
	}
}

// Do invokes fn until it succeeds, the attempt budget is exhausted, or the
// error is not retryable. The final error is returned unchanged so callers
// can classify it. A nil retryable treats every failure as retryable;
// context cancellation always stops the loop.
func (p Policy) Do(ctx context.Context, retryable func(error) bool, fn func(context.Context) error) error {
	attempts := p.attempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt >= attempts || !shouldRetry(ctx, err, retryable) {
			return err
		}
		if sleepErr := p.sleep(ctx, p.delayFor(err, attempt)); sleepErr != nil {
			return sleepErr
		}
	}
	return lastErr
}

func shouldRetry(ctx context.Context, err error, retryable func(error) bool) bool {
	if ctx == nil || ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if retryable == nil {
		return true
	}
	return retryable(err)
}

// delayFor honors a server-provided retry hint when the error carries one,
// otherwise falls back to exponential backoff.
func (p Policy) delayFor(err error, attempt int) time.Duration {
	var hinter interface{ RetryAfter() time.Duration }
	if errors.As(err, &hinter) {
		if hint := hinter.RetryAfter(); hint > 0 {
			return p.capDelay(hint)
		}
	}
	return p.backoffDelay(attempt)
}

// backoffDelay returns base for the first retry, doubling per attempt:
// attempt 1 -> base, attempt 2 -> base*2, attempt 3 -> base*4, ...
func (p Policy) backoffDelay(attempt int) time.Duration {
	base := p.baseDelay()
	maxDelay := p.maxDelay()
	if base <= 0 {
		return 0
	}
	if attempt <= 0 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	return p.capDelay(delay)
}

func (p Policy) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if maxDelay := p.maxDelay(); maxDelay > 0 && delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (p Policy) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx == nil {
		return errors.New("retry: nil context")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if p.Sleeper != nil {
		p.Sleeper(delay)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p Policy) attempts() int {
	if p.MaxAttempts <= 0 {
		return defaultMaxAttempts
	}
	return p.MaxAttempts
}

func (p Policy) baseDelay() time.Duration {
	if p.BaseDelay <= 0 {
		return defaultBaseDelay
	}
	return p.BaseDelay
}

func (p Policy) maxDelay() time.Duration {
	if p.MaxDelay <= 0 {
		return defaultMaxDelay
	}
	return p.MaxDelay
}
