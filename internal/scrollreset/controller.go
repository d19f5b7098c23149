// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scrollreset returns a rendering surface to its scroll origin after
// navigation. Content that renders late can scroll a region again after a
// single reset, so every trigger runs several passes: one immediately, one on
// the next frame and one after each of the delays in Delays.
package scrollreset

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/iotcentral/internal/clock"
)

// Delays are the offsets of the delayed passes after a trigger.
var Delays = []time.Duration{50 * time.Millisecond, 250 * time.Millisecond}

// Controller schedules reset passes against a Registry.
type Controller struct {
	registry Registry
	clock    clock.Clock
	frames   FrameScheduler
	logger   *slog.Logger

	mu        sync.Mutex
	lastPath  string
	triggered bool
	gen       uint64
	frame     FrameID
	hasFrame  bool
	timers    []clock.Timer
	passes    int
}

// New creates a controller. A nil logger uses slog.Default.
func New(registry Registry, c clock.Clock, frames FrameScheduler, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{registry: registry, clock: c, frames: frames, logger: logger}
}

// Trigger resets scroll positions for a navigation to path. Repeated
// triggers with the same path are ignored. Passes still pending from the
// previous trigger are cancelled before new ones are scheduled.
// It returns false when the path was unchanged.
func (c *Controller) Trigger(path string) bool {
	c.mu.Lock()
	if c.triggered && path == c.lastPath {
		c.mu.Unlock()
		return false
	}
	c.triggered = true
	c.lastPath = path
	c.cancelLocked()
	gen := c.gen
	c.mu.Unlock()

	c.pass(gen)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return true
	}
	c.frame = c.frames.RequestFrame(func() { c.pass(gen) })
	c.hasFrame = true
	for _, d := range Delays {
		c.timers = append(c.timers, c.clock.AfterFunc(d, func() { c.pass(gen) }))
	}
	return true
}

// Stop cancels all pending passes.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

// Passes returns how many passes have run.
func (c *Controller) Passes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.passes
}

func (c *Controller) cancelLocked() {
	c.gen++
	if c.hasFrame {
		c.frames.CancelFrame(c.frame)
		c.hasFrame = false
	}
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
}

func (c *Controller) pass(gen uint64) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.passes++
	c.mu.Unlock()

	c.guard("window", c.registry.ResetWindow)
	c.guard("scroll root", c.registry.ResetScrollRoot)
	c.guard("body", c.registry.ResetBody)

	var regions []Region
	c.guard("list regions", func() error {
		var err error
		regions, err = c.registry.ListScrollableRegions()
		return err
	})
	for _, r := range regions {
		if !r.Scrollable() {
			continue
		}
		c.guard("region "+r.ID, func() error { return c.registry.ResetRegion(r) })
	}
}

// guard runs one reset, swallowing errors and panics so the rest of the pass continues.
func (c *Controller) guard(what string, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Debug("scroll reset failed", "target", what, "error", fmt.Sprint(rec))
		}
	}()
	if err := fn(); err != nil {
		c.logger.Debug("scroll reset failed", "target", what, "error", err)
	}
}
