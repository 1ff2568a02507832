package runner

import (
	"context"
	"time"
)

// RetryPolicy configures retry behavior.
type RetryPolicy struct {
	MaxAttempts int                                        // total attempts including initial try
	Delay       time.Duration                              // fixed delay between retries (used if DelayFunc nil)
	ShouldRetry func(error) bool                           // predicate; if nil, all errors retried
	DelayFunc   func(attempt int, err error) time.Duration // dynamic backoff; attempt is 1-based
}

// NewRetryPolicy returns the policy for a retry budget of retries: up to
// retries+1 attempts spaced by delay, retrying only errors accepted by
// shouldRetry.
func NewRetryPolicy(retries int, delay time.Duration, shouldRetry func(error) bool) RetryPolicy {
	if retries < 0 {
		retries = 0
	}
	return RetryPolicy{
		MaxAttempts: retries + 1,
		Delay:       delay,
		ShouldRetry: shouldRetry,
	}
}

// retryRequester wraps a Requester with retry logic.
type retryRequester struct {
	inner  Requester
	policy RetryPolicy
}

// WithRetry wraps a Requester with retry capability.
func WithRetry(req Requester, policy RetryPolicy) Requester {
	if policy.MaxAttempts <= 1 {
		return req
	}
	return &retryRequester{
		inner:  req,
		policy: policy,
	}
}

func (r *retryRequester) Do(ctx context.Context) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}

		status, err := r.inner.Do(ctx)
		if err == nil {
			return status, nil
		}
		lastErr = err

		if attempt == r.policy.MaxAttempts {
			break
		}
		if r.policy.ShouldRetry != nil && !r.policy.ShouldRetry(err) {
			return 0, err
		}
		delay := r.policy.Delay
		if r.policy.DelayFunc != nil {
			delay = r.policy.DelayFunc(attempt, err)
		}
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return 0, ctx.Err()
			}
		}
	}
	return 0, lastErr
}
