// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package telemetry

import "sync"

// Stream keeps the most recent traffic samples for the live infrastructure
// view. It starts empty; each Tick appends one sample.
type Stream struct {
	gen *Generator
	log *Log[DataPoint]

	mu     sync.Mutex
	onPush func(DataPoint)
}

// NewStream creates an empty stream holding up to capacity samples.
func NewStream(gen *Generator, capacity int) *Stream {
	if capacity <= 0 {
		capacity = StreamCapacity
	}
	return &Stream{gen: gen, log: NewLog[DataPoint](capacity)}
}

// OnPush registers the callback invoked with every new sample.
func (s *Stream) OnPush(fn func(DataPoint)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPush = fn
}

// Tick generates and records one sample.
func (s *Stream) Tick() DataPoint {
	p := s.gen.GeneratePoint()
	s.log.Push(p)

	s.mu.Lock()
	cb := s.onPush
	s.mu.Unlock()
	if cb != nil {
		cb(p)
	}
	return p
}

// Reset drops all samples.
func (s *Stream) Reset() {
	s.log.Reset()
}

// Points returns the samples oldest first, the order charts plot them in.
func (s *Stream) Points() []DataPoint {
	snap := s.log.Snapshot()
	for i, j := 0, len(snap)-1; i < j; i, j = i+1, j-1 {
		snap[i], snap[j] = snap[j], snap[i]
	}
	return snap
}

// Len returns the number of samples held.
func (s *Stream) Len() int {
	return s.log.Len()
}
