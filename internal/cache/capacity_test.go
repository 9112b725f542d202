package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubCounter struct {
	calls atomic.Int32
	size  atomic.Int64
	delay time.Duration

	mu  sync.Mutex
	err error
}

func (s *stubCounter) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *stubCounter) CountEntries(ctx context.Context) (int, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return int(s.size.Load()), nil
}

func newTestCapacity(counter Counter) (*Capacity, *time.Time) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCapacity(counter, 10*time.Second)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCapacity_CachesWithinTTL(t *testing.T) {
	ctx := context.Background()
	counter := &stubCounter{}
	counter.size.Store(42)

	c, now := newTestCapacity(counter)
	assert.Equal(t, 42, c.Size(ctx))

	counter.size.Store(43)
	*now = now.Add(9 * time.Second)
	assert.Equal(t, 42, c.Size(ctx))
	assert.EqualValues(t, 1, counter.calls.Load())

	*now = now.Add(2 * time.Second)
	assert.Equal(t, 43, c.Size(ctx))
	assert.EqualValues(t, 2, counter.calls.Load())
}

func TestCapacity_Invalidate(t *testing.T) {
	ctx := context.Background()
	counter := &stubCounter{}
	counter.size.Store(1)

	c, _ := newTestCapacity(counter)
	assert.Equal(t, 1, c.Size(ctx))

	counter.size.Store(2)
	c.Invalidate()
	assert.Equal(t, 2, c.Size(ctx))
	assert.EqualValues(t, 2, counter.calls.Load())
}

func TestCapacity_FallsBackToLastKnownOnError(t *testing.T) {
	ctx := context.Background()
	counter := &stubCounter{}
	counter.size.Store(7)

	c, now := newTestCapacity(counter)
	assert.Equal(t, 7, c.Size(ctx))

	counter.setErr(errors.New("db down"))
	*now = now.Add(time.Minute)
	assert.Equal(t, 7, c.Size(ctx))

	// errors are not cached, the next call tries again
	counter.setErr(nil)
	counter.size.Store(8)
	assert.Equal(t, 8, c.Size(ctx))
}

func TestCapacity_ErrorBeforeAnyCountReturnsZero(t *testing.T) {
	counter := &stubCounter{}
	counter.setErr(errors.New("db down"))

	c, _ := newTestCapacity(counter)
	assert.Equal(t, 0, c.Size(context.Background()))
}

func TestCapacity_ConcurrentMissesShareOneQuery(t *testing.T) {
	counter := &stubCounter{delay: 50 * time.Millisecond}
	counter.size.Store(5)
	c := NewCapacity(counter, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 5, c.Size(context.Background()))
		}()
	}
	wg.Wait()
	assert.Less(t, counter.calls.Load(), int32(5))
}

type ctxCounter struct {
	size int
}

func (c ctxCounter) CountEntries(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return c.size, nil
}

func TestCapacity_RefreshIgnoresCallerCancel(t *testing.T) {
	c, now := newTestCapacity(ctxCounter{size: 7})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 7, c.Size(ctx))

	// cached: a later caller within the ttl sees the same value
	*now = now.Add(time.Second)
	assert.Equal(t, 7, c.Size(context.Background()))
}
