// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package live

import (
	"sync"

	"github.com/olegiv/iotcentral/internal/scrollreset"
)

// RemoteRegistry is the scroll registry of a page on the other end of a
// session. The page reports its overflowing regions; resets are sent back
// as commands.
type RemoteRegistry struct {
	send func(Command) error

	mu      sync.Mutex
	regions map[string]scrollreset.Region
	order   []string
}

// NewRemoteRegistry creates a registry that emits commands through send.
func NewRemoteRegistry(send func(Command) error) *RemoteRegistry {
	return &RemoteRegistry{send: send, regions: make(map[string]scrollreset.Region)}
}

// Update replaces the known regions with the ones the page reported.
func (r *RemoteRegistry) Update(regions []scrollreset.Region) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.regions = make(map[string]scrollreset.Region, len(regions))
	r.order = r.order[:0]
	for _, reg := range regions {
		if reg.ID == "" {
			continue
		}
		if _, dup := r.regions[reg.ID]; !dup {
			r.order = append(r.order, reg.ID)
		}
		r.regions[reg.ID] = reg
	}
}

// ResetWindow scrolls the window to the origin.
func (r *RemoteRegistry) ResetWindow() error {
	return r.send(Command{Type: CmdScrollReset, Data: ScrollReset{Target: TargetWindow}})
}

// ResetScrollRoot zeroes the document scrolling element.
func (r *RemoteRegistry) ResetScrollRoot() error {
	return r.send(Command{Type: CmdScrollReset, Data: ScrollReset{Target: TargetScrollRoot}})
}

// ResetBody zeroes the body scroll offset.
func (r *RemoteRegistry) ResetBody() error {
	return r.send(Command{Type: CmdScrollReset, Data: ScrollReset{Target: TargetBody}})
}

// ListScrollableRegions returns the regions last reported by the page.
func (r *RemoteRegistry) ListScrollableRegions() ([]scrollreset.Region, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]scrollreset.Region, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.regions[id])
	}
	return out, nil
}

// ResetRegion zeroes one region. Regions the page no longer reports fail
// with ErrRegionDetached.
func (r *RemoteRegistry) ResetRegion(reg scrollreset.Region) error {
	r.mu.Lock()
	cur, ok := r.regions[reg.ID]
	if ok {
		cur.ScrollTop = 0
		r.regions[reg.ID] = cur
	}
	r.mu.Unlock()

	if !ok {
		return ErrRegionDetached
	}
	return r.send(Command{Type: CmdScrollReset, Data: ScrollReset{Target: TargetRegion, ID: reg.ID}})
}

var _ scrollreset.Registry = (*RemoteRegistry)(nil)
