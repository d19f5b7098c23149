// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package live

import (
	"slices"
	"sync"

	"github.com/olegiv/iotcentral/internal/scrollreset"
)

// flushFrames treats every flush of the outgoing command queue as a paint
// frame: callbacks requested before a flush run right after it.
type flushFrames struct {
	mu      sync.Mutex
	seq     scrollreset.FrameID
	pending map[scrollreset.FrameID]func()
}

func newFlushFrames() *flushFrames {
	return &flushFrames{pending: make(map[scrollreset.FrameID]func())}
}

// RequestFrame queues fn for the next flush.
func (f *flushFrames) RequestFrame(fn func()) scrollreset.FrameID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.pending[f.seq] = fn
	return f.seq
}

// CancelFrame drops a queued callback.
func (f *flushFrames) CancelFrame(id scrollreset.FrameID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, id)
}

// run invokes and forgets every queued callback in request order.
func (f *flushFrames) run() int {
	f.mu.Lock()
	if len(f.pending) == 0 {
		f.mu.Unlock()
		return 0
	}
	ids := make([]scrollreset.FrameID, 0, len(f.pending))
	for id := range f.pending {
		ids = append(ids, id)
	}
	fns := make([]func(), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, f.pending[id])
		delete(f.pending, id)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

func (f *flushFrames) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
