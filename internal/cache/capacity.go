package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCountTTL is how long a counted waitlist size is trusted.
const DefaultCountTTL = 10 * time.Second

const countKey = "count"

// Counter returns the exact number of waitlist entries.
type Counter interface {
	CountEntries(ctx context.Context) (int, error)
}

// Capacity caches the total waitlist size so rate limiting and the capacity
// gate do not issue a count query per request.
type Capacity struct {
	counter Counter
	ttl     time.Duration
	group   singleflight.Group
	now     func() time.Time

	mu        sync.Mutex
	size      int
	expiresAt time.Time
	gen       uint64
}

// NewCapacity returns a tracker backed by counter.
func NewCapacity(counter Counter, ttl time.Duration) *Capacity {
	if ttl <= 0 {
		ttl = DefaultCountTTL
	}
	return &Capacity{
		counter: counter,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Size returns the approximate waitlist size. On a stale cache it counts the
// store once for all concurrent callers; if that fails the last known value
// is returned.
func (c *Capacity) Size(ctx context.Context) int {
	c.mu.Lock()
	if c.now().Before(c.expiresAt) {
		size := c.size
		c.mu.Unlock()
		return size
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do(countKey, func() (interface{}, error) {
		// the result is shared by every waiting caller
		return c.counter.CountEntries(context.WithoutCancel(ctx))
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		slog.Default().WarnContext(ctx, "can't count waitlist entries, using last known size",
			slog.String("err", err.Error()),
			slog.Int("size", c.size),
		)
		return c.size
	}

	size := v.(int)
	c.size = size
	// an invalidation during the count means the result may already be stale
	if gen == c.gen {
		c.expiresAt = c.now().Add(c.ttl)
	}
	return size
}

// Invalidate forces the next Size call to count the store.
func (c *Capacity) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.expiresAt = time.Time{}
	c.mu.Unlock()
	c.group.Forget(countKey)
}
