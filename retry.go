package armstrong

import (
	"context"
	"errors"
	"time"
)

// BackoffPolicy controls retries of remote LLM calls. Delays grow
// exponentially from BaseDelay by Multiplier per attempt, capped at
// MaxDelay. The policy is injectable so callers can disable sleeping in
// tests.
type BackoffPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration

	// Sleep is called between attempts. If nil, a context-aware
	// time.Sleep equivalent is used.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultBackoffPolicy mirrors the retry settings used against the hosted
// model API: up to 5 attempts starting at a 1 second delay.
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		Multiplier:  2.0,
		MaxDelay:    30 * time.Second,
	}
}

// Delay returns the wait before the given retry attempt (1-based, so
// attempt 1 waits BaseDelay).
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 || p.BaseDelay <= 0 {
		return 0
	}

	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Multiplier)
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

func (p BackoffPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do runs fn up to MaxAttempts times, sleeping between attempts. Context
// cancellation stops retrying immediately and is never masked.
func (p BackoffPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		if err := p.sleep(ctx, p.Delay(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

// WithRetry wraps a session so that GenerateContent retries transient
// failures according to the policy. The wrapper never panics past its
// boundary; after exhausting attempts it returns the last error so callers
// can substitute their fallback value.
func WithRetry(session Session, policy BackoffPolicy) Session {
	if session == nil {
		return nil
	}
	return &retrySession{next: session, policy: policy}
}

type retrySession struct {
	next   Session
	policy BackoffPolicy
}

func (s *retrySession) GenerateContent(ctx context.Context, input ...Input) (*Response, error) {
	var resp *Response
	err := s.policy.Do(ctx, func() error {
		var genErr error
		resp, genErr = s.next.GenerateContent(ctx, input...)
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *retrySession) History() *History {
	return s.next.History()
}

func (s *retrySession) SetHistory(history *History) {
	s.next.SetHistory(history)
}
