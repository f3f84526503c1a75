// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"slices"
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock. Safe for concurrent use.
//
// AfterFunc callbacks run synchronously inside Advance, in deadline
// order. A callback must not call Advance.
type FakeClock struct {
	mu       sync.Mutex
	now      time.Time
	sequence uint64
	timers   []*fakeTimer
	changed  *sync.Cond
}

// fakeTimer is one armed After, AfterFunc, or ticker.
type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	// sequence breaks deadline ties in arming order.
	sequence uint64
	channel  chan time.Time
	callback func()
	period   time.Duration
	done     bool
}

// Fake returns a FakeClock reading initial until advanced.
func Fake(initial time.Time) *FakeClock {
	fake := &FakeClock{now: initial}
	fake.changed = sync.NewCond(&fake.mu)
	return fake
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After arms a one-shot channel timer.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	channel := make(chan time.Time, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if d <= 0 {
		channel <- c.now
		return channel
	}
	c.armLocked(&fakeTimer{deadline: c.now.Add(d), channel: channel})
	return channel
}

// AfterFunc arms f to run during the Advance that crosses d. A
// non-positive d runs f before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	if d <= 0 {
		f()
		return &fakeTimer{clock: c, done: true}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{deadline: c.now.Add(d), callback: f}
	c.armLocked(timer)
	return timer
}

// NewTicker arms a periodic channel timer.
func (c *FakeClock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: NewTicker requires a positive interval")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{deadline: c.now.Add(d), channel: make(chan time.Time, 1), period: d}
	c.armLocked(timer)
	return fakeTicker{timer}
}

func (c *FakeClock) armLocked(timer *fakeTimer) {
	c.sequence++
	timer.clock = c
	timer.sequence = c.sequence
	c.timers = append(c.timers, timer)
	c.changed.Broadcast()
}

// Advance moves time forward by d, firing every timer whose deadline is
// reached. Timers armed by callbacks during the advance also fire if
// they fall inside the window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDueLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.deadline
		fireTime := c.now
		if next.period > 0 {
			next.deadline = next.deadline.Add(next.period)
		} else {
			next.done = true
			c.removeLocked(next)
		}
		c.mu.Unlock()

		if next.callback != nil {
			next.callback()
			continue
		}
		select {
		case next.channel <- fireTime:
		default:
		}
	}
}

// nextDueLocked returns the earliest live timer at or before target.
func (c *FakeClock) nextDueLocked(target time.Time) *fakeTimer {
	var next *fakeTimer
	for _, timer := range c.timers {
		if timer.done || timer.deadline.After(target) {
			continue
		}
		if next == nil || timer.deadline.Before(next.deadline) ||
			(timer.deadline.Equal(next.deadline) && timer.sequence < next.sequence) {
			next = timer
		}
	}
	return next
}

func (c *FakeClock) removeLocked(timer *fakeTimer) {
	c.timers = slices.DeleteFunc(c.timers, func(candidate *fakeTimer) bool {
		return candidate == timer
	})
}

// WaitForTimers blocks until at least n timers are armed.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.timers) < n {
		c.changed.Wait()
	}
}

// PendingCount reports how many timers are armed.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Stop disarms the timer.
func (t *fakeTimer) Stop() bool {
	if t.clock == nil {
		return false
	}
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.clock.removeLocked(t)
	t.clock.changed.Broadcast()
	return true
}

type fakeTicker struct{ timer *fakeTimer }

func (t fakeTicker) C() <-chan time.Time { return t.timer.channel }

func (t fakeTicker) Stop() { t.timer.Stop() }
