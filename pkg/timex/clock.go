package timex

import (
	"sync"
	"time"
)

// DefaultClockInterval matches the one-minute refresh the dashboard clock
// displays at.
const DefaultClockInterval = time.Minute

// Clock is a live "current time" value that updates on a fixed interval
// while started. It is a scoped resource: acquire with Start when the owning
// view activates and release with Stop when it is torn down. Stop is
// idempotent and safe to call from defer on error paths, so the repeating
// timer can never leak past teardown.
type Clock struct {
	interval time.Duration

	mu      sync.Mutex
	now     time.Time
	subs    map[int]func(time.Time)
	nextSub int
	stop    chan struct{}
	done    chan struct{}
}

// NewClock returns a stopped Clock. A non-positive interval falls back to
// DefaultClockInterval.
func NewClock(interval time.Duration) *Clock {
	if interval <= 0 {
		interval = DefaultClockInterval
	}
	return &Clock{
		interval: interval,
		now:      time.Now(),
		subs:     make(map[int]func(time.Time)),
	}
}

// Start begins ticking. Calling Start on a running Clock is a no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stop != nil {
		return
	}

	c.now = time.Now()
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run(c.stop, c.done)
}

// Stop releases the repeating timer and waits for the tick goroutine to
// exit. Calling Stop on a stopped Clock is a no-op.
func (c *Clock) Stop() {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Now returns the most recent tick value.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Subscribe registers fn to be invoked on every tick and returns its
// unsubscribe func.
func (c *Clock) Subscribe(fn func(time.Time)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Clock) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			c.now = now
			fns := make([]func(time.Time), 0, len(c.subs))
			for _, fn := range c.subs {
				fns = append(fns, fn)
			}
			c.mu.Unlock()

			// Invoke outside the lock so a subscriber may unsubscribe itself.
			for _, fn := range fns {
				fn(now)
			}
		}
	}
}
