package store

import (
	"context"
	"time"
)

// RetryPolicy controls how the client reacts to transient store failures.
// The zero MaxAttempts means unbounded: the worker has nothing better to do
// while the store is unreachable, so the default keeps retrying until the
// caller's context gives up. Tests cap attempts to stay deterministic.
type RetryPolicy struct {
	// MaxAttempts bounds the number of underlying store calls per
	// operation. 0 means no bound.
	MaxAttempts int

	// Backoff returns how long to wait before the next attempt
	// (1-based). Nil means a constant one-second delay.
	Backoff func(attempt int) time.Duration
}

// DefaultRetryPolicy retries forever with a constant one-second delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.Backoff == nil {
		return time.Second
	}
	return p.Backoff(attempt)
}

// exhausted reports whether attempt (1-based, already executed) used up the
// attempt budget.
func (p RetryPolicy) exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt >= p.MaxAttempts
}

// wait sleeps for the policy delay or until ctx is done.
func (p RetryPolicy) wait(ctx context.Context, attempt int) error {
	d := p.delay(attempt)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
