// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package telemetry

import (
	"sync"
	"time"

	"github.com/olegiv/iotcentral/internal/clock"
)

// FeedConfig configures a live event feed.
type FeedConfig struct {
	Capacity  int
	SeedCount int
	Interval  time.Duration
}

// DefaultFeedConfig returns the overview feed settings: five seeded events,
// one new event every three seconds, ten kept.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		Capacity:  FeedCapacity,
		SeedCount: 5,
		Interval:  3 * time.Second,
	}
}

// Feed is the live event feed owned by a mounted view. Mount seeds the log
// and starts the ticker; Unmount stops it. Pushed events are reported to the
// OnPush callback after the log is updated.
type Feed struct {
	gen    *Generator
	log    *Log[Event]
	ticker *clock.Ticker
	cfg    FeedConfig

	mu      sync.Mutex
	nextID  int64
	mounted bool
	onPush  func(Event)
}

// NewFeed creates an unmounted feed.
func NewFeed(gen *Generator, c clock.Clock, cfg FeedConfig) *Feed {
	if cfg.Capacity <= 0 {
		cfg.Capacity = FeedCapacity
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultFeedConfig().Interval
	}
	return &Feed{
		gen:    gen,
		log:    NewLog[Event](cfg.Capacity),
		ticker: clock.NewTicker(c),
		cfg:    cfg,
	}
}

// OnPush registers the callback invoked for every event pushed by the ticker.
func (f *Feed) OnPush(fn func(Event)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onPush = fn
}

// Mount resets the log, seeds it with identities 0..SeedCount-1 and starts
// generating. Mounting an already mounted feed reseeds it.
func (f *Feed) Mount() {
	f.mu.Lock()
	f.log.Seed(f.cfg.SeedCount, func(i int) Event { return f.gen.Generate(int64(i)) })
	if f.nextID < int64(f.cfg.SeedCount) {
		f.nextID = int64(f.cfg.SeedCount)
	}
	f.mounted = true
	f.mu.Unlock()

	f.ticker.Start(f.cfg.Interval, f.tick)
}

// Unmount stops generating. The log keeps its last contents until the next Mount.
func (f *Feed) Unmount() {
	f.ticker.Stop()

	f.mu.Lock()
	f.mounted = false
	f.mu.Unlock()
}

// Mounted reports whether the feed is generating.
func (f *Feed) Mounted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mounted
}

// Snapshot returns the feed contents, newest first.
func (f *Feed) Snapshot() []Event {
	return f.log.Snapshot()
}

// Len returns the number of events held.
func (f *Feed) Len() int {
	return f.log.Len()
}

func (f *Feed) tick() {
	f.mu.Lock()
	if !f.mounted {
		f.mu.Unlock()
		return
	}
	id := f.nextID
	f.nextID++
	ev := f.gen.Generate(id)
	f.log.Push(ev)
	cb := f.onPush
	f.mu.Unlock()

	if cb != nil {
		cb(ev)
	}
}
