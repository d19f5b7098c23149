// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package telemetry

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/iotcentral/internal/clock"
)

var epoch = time.Date(2026, 3, 2, 14, 5, 9, 0, time.UTC)

func newTestGenerator(c clock.Clock) *Generator {
	return NewGenerator(c, rand.NewPCG(1, 2))
}

func ids(events []Event) []int64 {
	out := make([]int64, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestGenerator_Generate(t *testing.T) {
	c := clock.NewFake(epoch)
	g := newTestGenerator(c)

	for i := int64(0); i < 200; i++ {
		ev := g.Generate(i)
		assert.Equal(t, i, ev.ID)
		assert.Equal(t, "14:05:09", ev.Timestamp)
		assert.Equal(t, epoch, ev.CreatedAt)
		assert.Contains(t, Messages, ev.Message)
		assert.Contains(t, Devices, ev.Device)
		assert.Contains(t, Categories, ev.Category)
	}
}

func TestGenerator_CoversCatalogs(t *testing.T) {
	g := newTestGenerator(clock.NewFake(epoch))
	seenCat := map[Category]bool{}
	seenDev := map[string]bool{}
	for i := int64(0); i < 1000; i++ {
		ev := g.Generate(i)
		seenCat[ev.Category] = true
		seenDev[ev.Device] = true
	}
	assert.Len(t, seenCat, len(Categories))
	assert.Len(t, seenDev, len(Devices))
}

func TestGenerator_GeneratePoint(t *testing.T) {
	g := newTestGenerator(clock.NewFake(epoch))
	for i := 0; i < 500; i++ {
		p := g.GeneratePoint()
		assert.Equal(t, "14:05", p.Time)
		assert.GreaterOrEqual(t, p.Inbound, 200)
		assert.Less(t, p.Inbound, 700)
		assert.GreaterOrEqual(t, p.Outbound, 150)
		assert.Less(t, p.Outbound, 550)
	}
}

func TestLog_PushNeverExceedsCapacity(t *testing.T) {
	l := NewLog[int](10)
	for i := 0; i < 35; i++ {
		l.Push(i)
		assert.LessOrEqual(t, l.Len(), 10)
	}
	assert.Equal(t, []int{34, 33, 32, 31, 30, 29, 28, 27, 26, 25}, l.Snapshot())
}

func TestLog_EvictsOldestInsertion(t *testing.T) {
	l := NewLog[int](3)
	l.Push(1)
	l.Push(2)
	l.Push(3)
	require.Equal(t, []int{3, 2, 1}, l.Snapshot())

	l.Push(4)
	assert.Equal(t, []int{4, 3, 2}, l.Snapshot())
}

func TestLog_Seed(t *testing.T) {
	l := NewLog[int](10)
	l.Push(99)
	l.Seed(5, func(i int) int { return i })
	assert.Equal(t, []int{0, 1, 2, 3, 4}, l.Snapshot())
}

func TestLog_SeedLargerThanCapacity(t *testing.T) {
	l := NewLog[int](3)
	l.Seed(5, func(i int) int { return i })
	assert.Equal(t, []int{0, 1, 2}, l.Snapshot())
}

func TestLog_SnapshotIsCopy(t *testing.T) {
	l := NewLog[int](4)
	l.Push(1)
	snap := l.Snapshot()
	snap[0] = 42
	assert.Equal(t, []int{1}, l.Snapshot())
}

func TestLog_MinimumCapacity(t *testing.T) {
	l := NewLog[string](0)
	l.Push("a")
	l.Push("b")
	assert.Equal(t, 1, l.Cap())
	assert.Equal(t, []string{"b"}, l.Snapshot())
}

func TestFeed_LiveScenario(t *testing.T) {
	c := clock.NewFake(epoch)
	f := NewFeed(newTestGenerator(c), c, DefaultFeedConfig())

	var pushed []Event
	f.OnPush(func(e Event) { pushed = append(pushed, e) })

	f.Mount()
	require.Equal(t, []int64{0, 1, 2, 3, 4}, ids(f.Snapshot()))

	c.Advance(3 * time.Second)
	snap := f.Snapshot()
	require.Len(t, snap, 6)
	assert.Equal(t, pushed[0].ID, snap[0].ID, "newest event at head")
	assert.Contains(t, ids(snap), int64(0), "oldest seeded entry survives below capacity")

	c.Advance(9 * 3 * time.Second)
	snap = f.Snapshot()
	assert.Len(t, snap, 10)
	assert.NotContains(t, ids(snap), int64(0))
	assert.Len(t, pushed, 10)
	assert.Equal(t, pushed[len(pushed)-1].ID, snap[0].ID)
}

func TestFeed_PushedIDsAreUnique(t *testing.T) {
	c := clock.NewFake(epoch)
	f := NewFeed(newTestGenerator(c), c, DefaultFeedConfig())
	f.Mount()
	c.Advance(30 * time.Second)

	got := ids(f.Snapshot())
	sorted := slices.Clone(got)
	slices.Sort(sorted)
	assert.Len(t, slices.Compact(sorted), len(got))
}

func TestFeed_UnmountStopsAndRemountReseeds(t *testing.T) {
	c := clock.NewFake(epoch)
	f := NewFeed(newTestGenerator(c), c, DefaultFeedConfig())

	f.Mount()
	c.Advance(6 * time.Second)
	require.Equal(t, 7, f.Len())

	f.Unmount()
	assert.False(t, f.Mounted())
	c.Advance(30 * time.Second)
	assert.Equal(t, 7, f.Len())
	assert.Zero(t, c.Pending())

	f.Mount()
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, ids(f.Snapshot()))
}

func TestStream_KeepsNewestTwenty(t *testing.T) {
	c := clock.NewFake(epoch)
	s := NewStream(newTestGenerator(c), StreamCapacity)
	assert.Zero(t, s.Len())

	count := 0
	s.OnPush(func(DataPoint) { count++ })
	for i := 0; i < 25; i++ {
		s.Tick()
	}
	assert.Equal(t, 20, s.Len())
	assert.Equal(t, 25, count)
	assert.Len(t, s.Points(), 20)

	s.Reset()
	assert.Zero(t, s.Len())
}

func TestStream_PointsOldestFirst(t *testing.T) {
	c := clock.NewFake(epoch)
	s := NewStream(newTestGenerator(c), 5)

	s.Tick()
	c.Advance(time.Minute)
	last := s.Tick()

	pts := s.Points()
	require.Len(t, pts, 2)
	assert.Equal(t, "14:05", pts[0].Time)
	assert.Equal(t, last, pts[1])
}
