package reminderscheduler

import (
	"sync"
	"time"
)

// FakeClock runs timer callbacks synchronously from Advance.
type FakeClock struct {
	lock   sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *FakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.lock.Lock()
	defer c.lock.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in order of
// their deadlines. Timers armed by callbacks fire too if they are due.
func (c *FakeClock) Advance(d time.Duration) {
	c.lock.Lock()
	target := c.now.Add(d)
	c.lock.Unlock()

	for {
		c.lock.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.lock.Unlock()
			return
		}
		next.fired = true
		if next.at.After(c.now) {
			c.now = next.at
		}
		c.lock.Unlock()
		next.f()
	}
}

// Armed returns the number of timers neither fired nor stopped.
func (c *FakeClock) Armed() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	count := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			count++
		}
	}
	return count
}

func (t *fakeTimer) Stop() bool {
	t.clock.lock.Lock()
	defer t.clock.lock.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
