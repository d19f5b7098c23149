// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scrollreset

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/iotcentral/internal/clock"
)

var epoch = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRegistry is an in-memory surface. Regions keep their offsets between
// passes so tests can simulate content scrolling after a reset.
type fakeRegistry struct {
	windowY  int
	rootY    int
	bodyY    int
	regions  []Region
	failing  map[string]error
	panicky  map[string]bool
	resets   map[string]int
	listErr  error
	windowFn func() error
}

func newFakeRegistry(regions ...Region) *fakeRegistry {
	return &fakeRegistry{
		regions: regions,
		failing: map[string]error{},
		panicky: map[string]bool{},
		resets:  map[string]int{},
	}
}

func (f *fakeRegistry) ResetWindow() error {
	f.resets["window"]++
	if f.windowFn != nil {
		return f.windowFn()
	}
	f.windowY = 0
	return nil
}

func (f *fakeRegistry) ResetScrollRoot() error {
	f.resets["root"]++
	f.rootY = 0
	return nil
}

func (f *fakeRegistry) ResetBody() error {
	f.resets["body"]++
	f.bodyY = 0
	return nil
}

func (f *fakeRegistry) ListScrollableRegions() ([]Region, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Region, len(f.regions))
	copy(out, f.regions)
	return out, nil
}

func (f *fakeRegistry) ResetRegion(r Region) error {
	f.resets[r.ID]++
	if f.panicky[r.ID] {
		panic("detached node")
	}
	if err := f.failing[r.ID]; err != nil {
		return err
	}
	for i := range f.regions {
		if f.regions[i].ID == r.ID {
			f.regions[i].ScrollTop = 0
		}
	}
	return nil
}

func (f *fakeRegistry) scrollTop(id string) int {
	for _, r := range f.regions {
		if r.ID == id {
			return r.ScrollTop
		}
	}
	return -1
}

func (f *fakeRegistry) scroll(id string, y int) {
	for i := range f.regions {
		if f.regions[i].ID == id {
			f.regions[i].ScrollTop = y
		}
	}
}

// fakeFrames records frame requests and cancellations and runs them on Flush.
type fakeFrames struct {
	seq       FrameID
	pending   map[FrameID]func()
	requested int
	cancelled int
}

func newFakeFrames() *fakeFrames {
	return &fakeFrames{pending: map[FrameID]func(){}}
}

func (f *fakeFrames) RequestFrame(fn func()) FrameID {
	f.seq++
	f.requested++
	f.pending[f.seq] = fn
	return f.seq
}

func (f *fakeFrames) CancelFrame(id FrameID) {
	if _, ok := f.pending[id]; ok {
		f.cancelled++
		delete(f.pending, id)
	}
}

func (f *fakeFrames) Flush() {
	fns := f.pending
	f.pending = map[FrameID]func(){}
	for _, fn := range fns {
		fn()
	}
}

func scrollingRegion(id string, top int) Region {
	return Region{ID: id, OverflowY: "auto", ScrollHeight: 900, ClientHeight: 300, ScrollTop: top}
}

func TestRegion_Scrollable(t *testing.T) {
	tests := []struct {
		name string
		r    Region
		want bool
	}{
		{"overflow-y auto and taller", Region{OverflowY: "auto", ScrollHeight: 10, ClientHeight: 5}, true},
		{"overflow-y scroll", Region{OverflowY: "scroll", ScrollHeight: 10, ClientHeight: 5}, true},
		{"general overflow fallback", Region{OverflowY: "visible", Overflow: "auto", ScrollHeight: 10, ClientHeight: 5}, true},
		{"hidden overflow", Region{OverflowY: "hidden", Overflow: "hidden", ScrollHeight: 10, ClientHeight: 5}, false},
		{"content fits", Region{OverflowY: "auto", ScrollHeight: 5, ClientHeight: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Scrollable())
		})
	}
}

func TestController_AllPassesRun(t *testing.T) {
	c := clock.NewFake(epoch)
	reg := newFakeRegistry(scrollingRegion("panel", 400))
	frames := newFakeFrames()
	ctl := New(reg, c, frames, quietLogger())

	require.True(t, ctl.Trigger("/dashboard"))
	assert.Equal(t, 1, ctl.Passes())
	assert.Zero(t, reg.scrollTop("panel"))

	reg.scroll("panel", 120)
	frames.Flush()
	assert.Equal(t, 2, ctl.Passes())
	assert.Zero(t, reg.scrollTop("panel"))

	reg.scroll("panel", 80)
	c.Advance(50 * time.Millisecond)
	assert.Equal(t, 3, ctl.Passes())
	assert.Zero(t, reg.scrollTop("panel"))

	reg.scroll("panel", 60)
	c.Advance(200 * time.Millisecond)
	assert.Equal(t, 4, ctl.Passes())
	assert.Zero(t, reg.scrollTop("panel"))
	assert.Equal(t, 4, reg.resets["window"])
	assert.Equal(t, 4, reg.resets["root"])
	assert.Equal(t, 4, reg.resets["body"])
}

func TestController_SamePathIgnored(t *testing.T) {
	c := clock.NewFake(epoch)
	ctl := New(newFakeRegistry(), c, newFakeFrames(), quietLogger())

	assert.True(t, ctl.Trigger("/dashboard"))
	assert.False(t, ctl.Trigger("/dashboard"))
	assert.Equal(t, 1, ctl.Passes())
}

func TestController_RetriggerCancelsStalePasses(t *testing.T) {
	c := clock.NewFake(epoch)
	reg := newFakeRegistry()
	frames := newFakeFrames()
	ctl := New(reg, c, frames, quietLogger())

	ctl.Trigger("/dashboard")
	c.Advance(10 * time.Millisecond)
	ctl.Trigger("/dashboard/chat")

	assert.Equal(t, 2, frames.requested)
	assert.Equal(t, 1, frames.cancelled, "stale frame callback must be cancelled")
	assert.Equal(t, 2, c.Pending(), "only the new delayed passes remain")

	frames.Flush()
	c.Advance(time.Second)
	// 2 immediate passes + 1 frame + 2 delayed from the second trigger only.
	assert.Equal(t, 5, ctl.Passes())
}

func TestController_StopCancelsPending(t *testing.T) {
	c := clock.NewFake(epoch)
	frames := newFakeFrames()
	ctl := New(newFakeRegistry(), c, frames, quietLogger())

	ctl.Trigger("/dashboard")
	ctl.Stop()

	assert.Equal(t, 1, frames.cancelled)
	assert.Zero(t, c.Pending())
	frames.Flush()
	c.Advance(time.Second)
	assert.Equal(t, 1, ctl.Passes())
}

func TestController_FailuresAreIsolated(t *testing.T) {
	c := clock.NewFake(epoch)
	reg := newFakeRegistry(
		scrollingRegion("broken", 50),
		scrollingRegion("detached", 50),
		scrollingRegion("ok", 50),
	)
	reg.failing["broken"] = errors.New("no such element")
	reg.panicky["detached"] = true
	reg.windowFn = func() error { panic("window gone") }

	ctl := New(reg, c, newFakeFrames(), quietLogger())
	require.NotPanics(t, func() { ctl.Trigger("/dashboard") })

	assert.Equal(t, 1, reg.resets["root"])
	assert.Equal(t, 1, reg.resets["body"])
	assert.Equal(t, 1, reg.resets["broken"])
	assert.Equal(t, 1, reg.resets["detached"])
	assert.Zero(t, reg.scrollTop("ok"))
}

func TestController_ListFailureSkipsRegionsOnly(t *testing.T) {
	c := clock.NewFake(epoch)
	reg := newFakeRegistry(scrollingRegion("panel", 10))
	reg.listErr = errors.New("document unavailable")

	ctl := New(reg, c, newFakeFrames(), quietLogger())
	ctl.Trigger("/dashboard")

	assert.Equal(t, 1, reg.resets["body"])
	assert.Zero(t, reg.resets["panel"])
}

func TestController_SkipsNonScrollableRegions(t *testing.T) {
	c := clock.NewFake(epoch)
	short := Region{ID: "short", OverflowY: "auto", ScrollHeight: 100, ClientHeight: 100}
	reg := newFakeRegistry(short)

	New(reg, c, newFakeFrames(), quietLogger()).Trigger("/x")
	assert.Zero(t, reg.resets["short"])
}

func TestClockFrames(t *testing.T) {
	c := clock.NewFake(epoch)
	f := NewClockFrames(c, 0)
	ran := 0

	f.RequestFrame(func() { ran++ })
	id := f.RequestFrame(func() { ran += 10 })
	f.CancelFrame(id)

	c.Advance(DefaultFrameInterval)
	assert.Equal(t, 1, ran)
	assert.Zero(t, c.Pending())
}
