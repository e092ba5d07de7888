// Package timertest provides a virtual clock for driving timers in tests.
package timertest

import (
	"sync"
	"time"

	"studysync/backend/internal/timer"
)

var _ timer.Clock = (*ManualClock)(nil)

// ManualClock fires callbacks only when Advance moves virtual time past
// their deadline. Callbacks run synchronously on the goroutine calling
// Advance, in deadline order.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Duration
	waiters []*waiter
}

type waiter struct {
	clock   *ManualClock
	at      time.Duration
	fn      func()
	done    bool
	stopped bool
}

func (w *waiter) Stop() bool {
	w.clock.mu.Lock()
	defer w.clock.mu.Unlock()

	if w.done || w.stopped {
		return false
	}
	w.stopped = true
	return true
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) timer.Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := &waiter{clock: c, at: c.now + d, fn: f}
	c.waiters = append(c.waiters, w)
	return w
}

// Advance moves virtual time forward by d, firing every callback that
// becomes due, including ones scheduled by callbacks fired along the way.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.prune()
			c.mu.Unlock()
			return
		}
		c.now = next.at
		next.done = true
		c.mu.Unlock()

		next.fn()
	}
}

// Tick advances the clock by n timer intervals.
func (c *ManualClock) Tick(n int) {
	for i := 0; i < n; i++ {
		c.Advance(timer.Interval)
	}
}

// Pending reports how many callbacks are scheduled and not cancelled.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, w := range c.waiters {
		if !w.done && !w.stopped {
			count++
		}
	}
	return count
}

func (c *ManualClock) nextDue(target time.Duration) *waiter {
	var next *waiter
	for _, w := range c.waiters {
		if w.done || w.stopped || w.at > target {
			continue
		}
		if next == nil || w.at < next.at {
			next = w
		}
	}
	return next
}

func (c *ManualClock) prune() {
	live := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.done && !w.stopped {
			live = append(live, w)
		}
	}
	c.waiters = live
}
