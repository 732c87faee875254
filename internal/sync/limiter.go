package sync

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// ProviderLimiter throttles provider API fetches with one token bucket per
// provider. It is an injected component rather than package state so tests
// control it and every caller shares the same budget.
type ProviderLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

// NewProviderLimiter creates a limiter allowing r fetches per second with the
// given burst, per provider.
func NewProviderLimiter(r float64, burst int) *ProviderLimiter {
	return &ProviderLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(r),
		burst:    burst,
	}
}

// Wait blocks until a fetch for the provider is allowed or the context ends
func (l *ProviderLimiter) Wait(ctx context.Context, provider string) error {
	return l.limiter(provider).Wait(ctx)
}

// limiter returns the bucket for a provider, creating it on first use
func (l *ProviderLimiter) limiter(provider string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[provider]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[provider] = limiter
	}
	return limiter
}
