// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package telemetry

import "sync"

// Feed and stream capacities.
const (
	FeedCapacity   = 10
	StreamCapacity = 20
)

// Log is a fixed-capacity sequence kept newest-first. Pushing onto a full
// log drops the element at the tail. A single writer and any number of
// readers may use it concurrently.
type Log[T any] struct {
	mu       sync.RWMutex
	items    []T
	capacity int
}

// NewLog creates an empty log. Capacities below one are raised to one.
func NewLog[T any](capacity int) *Log[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Log[T]{items: make([]T, 0, capacity), capacity: capacity}
}

// Push prepends v and truncates the log to its capacity.
func (l *Log[T]) Push(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	keep := len(l.items)
	if keep >= l.capacity {
		keep = l.capacity - 1
	}
	next := make([]T, 0, l.capacity)
	next = append(next, v)
	next = append(next, l.items[:keep]...)
	l.items = next
}

// Seed replaces the contents with gen(0) .. gen(n-1) in that order, so the
// head is identity 0 and the tail is identity n-1. Only the first capacity
// items are kept when n exceeds it.
func (l *Log[T]) Seed(n int, gen func(i int) T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > l.capacity {
		n = l.capacity
	}
	if n < 0 {
		n = 0
	}
	items := make([]T, 0, l.capacity)
	for i := 0; i < n; i++ {
		items = append(items, gen(i))
	}
	l.items = items
}

// Reset empties the log.
func (l *Log[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = make([]T, 0, l.capacity)
}

// Snapshot returns a copy of the contents, head first.
func (l *Log[T]) Snapshot() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of items held.
func (l *Log[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Cap returns the capacity.
func (l *Log[T]) Cap() int {
	return l.capacity
}
