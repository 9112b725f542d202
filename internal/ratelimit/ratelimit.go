package ratelimit

import (
	"context"
	"sync"
	"time"

	gerr "github.com/globelend/waitlist-manager/internal/errors"
)

// DefaultWindow is the fixed counting window for every client key.
const DefaultWindow = time.Minute

// Tiers defines how the per-window ceiling shrinks as the waitlist grows.
type Tiers struct {
	Base            int `mapstructure:"base"`
	Medium          int `mapstructure:"medium"`
	High            int `mapstructure:"high"`
	MediumThreshold int `mapstructure:"medium_threshold"`
	HighThreshold   int `mapstructure:"high_threshold"`
}

// DefaultTiers returns 10/8/5 requests per window at 0/1000/5000 entries.
func DefaultTiers() Tiers {
	return Tiers{
		Base:            10,
		Medium:          8,
		High:            5,
		MediumThreshold: 1000,
		HighThreshold:   5000,
	}
}

// withDefaults replaces non-positive values with the defaults.
func (t Tiers) withDefaults() Tiers {
	d := DefaultTiers()
	if t.Base <= 0 {
		t.Base = d.Base
	}
	if t.Medium <= 0 {
		t.Medium = d.Medium
	}
	if t.High <= 0 {
		t.High = d.High
	}
	if t.MediumThreshold <= 0 {
		t.MediumThreshold = d.MediumThreshold
	}
	if t.HighThreshold <= 0 {
		t.HighThreshold = d.HighThreshold
	}
	return t
}

// Ceiling returns the allowed requests per window for the given waitlist size.
func (t Tiers) Ceiling(size int) int {
	switch {
	case size >= t.HighThreshold:
		return t.High
	case size >= t.MediumThreshold:
		return t.Medium
	default:
		return t.Base
	}
}

// Limiter implements an in-memory fixed window rate limiter whose ceiling
// depends on the current waitlist size.
type Limiter struct {
	mu       sync.Mutex
	counters map[string]*counter
	window   time.Duration
	tiers    Tiers
	now      func() time.Time
}

type counter struct {
	count   int
	resetAt time.Time
}

// NewLimiter creates a new rate limiter with the specified window and tiers.
func NewLimiter(window time.Duration, tiers Tiers) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		counters: make(map[string]*counter),
		window:   window,
		tiers:    tiers.withDefaults(),
		now:      time.Now,
	}
}

// Ceiling returns the current per-window ceiling for the given waitlist size.
func (l *Limiter) Ceiling(size int) int {
	return l.tiers.Ceiling(size)
}

// Window returns the counting window.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// CheckAndConsume counts a request for key. It returns a *gerr.RateLimitedError
// carrying the time left in the window once the ceiling for currentSize is reached.
func (l *Limiter) CheckAndConsume(key string, currentSize int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, exists := l.counters[key]

	if !exists || now.After(c.resetAt) {
		l.counters[key] = &counter{
			count:   1,
			resetAt: now.Add(l.window),
		}
		return nil
	}

	if c.count >= l.tiers.Ceiling(currentSize) {
		return &gerr.RateLimitedError{RetryAfter: c.resetAt.Sub(now)}
	}

	c.count++
	return nil
}

// GetRemaining returns the number of remaining requests for the given key.
func (l *Limiter) GetRemaining(key string, currentSize int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	ceiling := l.tiers.Ceiling(currentSize)
	c, exists := l.counters[key]
	if !exists || l.now().After(c.resetAt) {
		return ceiling
	}

	remaining := ceiling - c.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Sweep removes expired counters and returns how many were dropped.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, c := range l.counters {
		if now.After(c.resetAt) {
			delete(l.counters, key)
			removed++
		}
	}
	return removed
}

// Run sweeps expired counters once per window until ctx is done.
// Expiry is still evaluated on every request, the sweep only bounds memory.
func (l *Limiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Sweep()
		}
	}
}
