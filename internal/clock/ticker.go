// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package clock

import (
	"sync"
	"time"
)

// Ticker invokes a callback periodically until stopped. It is built on
// one-shot timers so it runs on any Clock, including Fake.
type Ticker struct {
	clock Clock

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	running bool
}

// NewTicker creates a stopped ticker on the given clock.
func NewTicker(c Clock) *Ticker {
	return &Ticker{clock: c}
}

// Start begins invoking cb every period. Calling Start on a running ticker
// replaces the previous schedule. A non-positive period is a no-op.
func (t *Ticker) Start(period time.Duration, cb func()) {
	if period <= 0 || cb == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.running = true
	t.scheduleLocked(t.gen, period, cb)
}

// Stop cancels the schedule. No tick is scheduled after Stop returns, but a
// callback that was already firing may still be running; callers that must
// not observe it guard the callback themselves.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Running reports whether the ticker has an active schedule.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Ticker) stopLocked() {
	t.gen++
	t.running = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Ticker) scheduleLocked(gen uint64, period time.Duration, cb func()) {
	t.timer = t.clock.AfterFunc(period, func() {
		t.mu.Lock()
		if gen != t.gen {
			t.mu.Unlock()
			return
		}
		t.scheduleLocked(gen, period, cb)
		t.mu.Unlock()

		cb()
	})
}
