package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a tokens-per-minute budget for LLM calls.
// The window resets a minute after the first consumption in that window.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time
}

// NewTokenLimiter creates a limiter with the given per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{maxPerMin: maxPerMinute}
}

// Wait blocks until the given number of tokens fits in the current window,
// or the context is canceled.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		l.mu.Lock()
		now := time.Now()
		if l.windowStart.IsZero() || now.Sub(l.windowStart) >= time.Minute {
			l.windowStart = now
			l.used = 0
		}
		if l.used+tokens <= l.maxPerMin || tokens > l.maxPerMin {
			// Requests above the budget are admitted alone rather than blocking forever.
			l.used += tokens
			l.mu.Unlock()
			return nil
		}
		wait := time.Minute - now.Sub(l.windowStart)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// GetRemaining returns the unused tokens in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.windowStart.IsZero() || time.Since(l.windowStart) >= time.Minute {
		return l.maxPerMin
	}
	remaining := l.maxPerMin - l.used
	if remaining < 0 {
		return 0
	}
	return remaining
}
