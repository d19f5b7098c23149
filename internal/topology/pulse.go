// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package topology

import (
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/olegiv/iotcentral/internal/clock"
)

// PulseDuration is how long a selected node stays highlighted.
const PulseDuration = 1000 * time.Millisecond

// Simulator highlights a random node on every tick and clears the highlight
// after PulseDuration. A node picked again while still pulsing keeps its
// original clear timer; the extra timer it gets clears nothing.
type Simulator struct {
	clock  clock.Clock
	pick   func(n int) int
	ids    []string
	ticker *clock.Ticker

	mu       sync.Mutex
	pulsing  map[string]struct{}
	timers   map[uint64]clock.Timer
	seq      uint64
	gen      uint64
	onChange func(id string, pulsing bool)
}

// NewSimulator creates a simulator over the node catalog. pick returns a
// uniform index in [0, n); nil uses math/rand.
func NewSimulator(c clock.Clock, pick func(n int) int) *Simulator {
	if pick == nil {
		pick = rand.IntN
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return &Simulator{
		clock:   c,
		pick:    pick,
		ids:     ids,
		ticker:  clock.NewTicker(c),
		pulsing: make(map[string]struct{}),
		timers:  make(map[uint64]clock.Timer),
	}
}

// OnChange registers the callback invoked when a node starts or stops pulsing.
func (s *Simulator) OnChange(fn func(id string, pulsing bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Start ticks every period until Stop.
func (s *Simulator) Start(period time.Duration) {
	s.ticker.Start(period, func() { s.Tick() })
}

// Tick selects a node, marks it pulsing and schedules its clear.
// It returns the selected node id.
func (s *Simulator) Tick() string {
	s.mu.Lock()
	id := s.ids[s.pick(len(s.ids))]
	_, already := s.pulsing[id]
	s.pulsing[id] = struct{}{}

	s.seq++
	key, gen := s.seq, s.gen
	s.timers[key] = s.clock.AfterFunc(PulseDuration, func() { s.clear(key, gen, id) })
	cb := s.onChange
	s.mu.Unlock()

	if !already && cb != nil {
		cb(id, true)
	}
	return id
}

func (s *Simulator) clear(key, gen uint64, id string) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	delete(s.timers, key)
	_, was := s.pulsing[id]
	delete(s.pulsing, id)
	cb := s.onChange
	s.mu.Unlock()

	if was && cb != nil {
		cb(id, false)
	}
}

// Stop halts ticking, cancels every pending clear and empties the pulsing set.
func (s *Simulator) Stop() {
	s.ticker.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
	s.pulsing = make(map[string]struct{})
}

// Pulsing returns the ids of pulsing nodes in sorted order.
func (s *Simulator) Pulsing() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.pulsing))
	for id := range s.pulsing {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsPulsing reports whether the node is highlighted.
func (s *Simulator) IsPulsing(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pulsing[id]
	return ok
}

// PendingClears returns the number of scheduled clear timers.
func (s *Simulator) PendingClears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
