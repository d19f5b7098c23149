// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scrollreset

import (
	"sync"
	"time"

	"github.com/olegiv/iotcentral/internal/clock"
)

// FrameID identifies a requested frame callback.
type FrameID uint64

// FrameScheduler runs callbacks on the next paint frame.
type FrameScheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// DefaultFrameInterval approximates one frame at 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// ClockFrames emulates paint frames with a fixed-interval timer. It is used
// where the rendering surface is remote and has no frame signal of its own.
type ClockFrames struct {
	clock    clock.Clock
	interval time.Duration

	mu     sync.Mutex
	seq    FrameID
	timers map[FrameID]clock.Timer
}

// NewClockFrames creates a frame scheduler firing interval after each request.
func NewClockFrames(c clock.Clock, interval time.Duration) *ClockFrames {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &ClockFrames{clock: c, interval: interval, timers: make(map[FrameID]clock.Timer)}
}

// RequestFrame schedules fn for the next frame.
func (f *ClockFrames) RequestFrame(fn func()) FrameID {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	id := f.seq
	f.timers[id] = f.clock.AfterFunc(f.interval, func() {
		f.mu.Lock()
		_, live := f.timers[id]
		delete(f.timers, id)
		f.mu.Unlock()
		if live {
			fn()
		}
	})
	return id
}

// CancelFrame drops a pending frame callback.
func (f *ClockFrames) CancelFrame(id FrameID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.timers[id]; ok {
		t.Stop()
		delete(f.timers, id)
	}
}
