// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scrollreset

// Region is a scrollable element reported by a rendering surface.
type Region struct {
	ID           string `json:"id"`
	OverflowY    string `json:"overflow_y"`
	Overflow     string `json:"overflow"`
	ScrollHeight int    `json:"scroll_height"`
	ClientHeight int    `json:"client_height"`
	ScrollTop    int    `json:"scroll_top"`
}

// Scrollable reports whether the region scrolls: its vertical or general
// overflow is auto or scroll and its content is taller than its box.
func (r Region) Scrollable() bool {
	if !scrollingOverflow(r.OverflowY) && !scrollingOverflow(r.Overflow) {
		return false
	}
	return r.ScrollHeight > r.ClientHeight
}

func scrollingOverflow(v string) bool {
	return v == "auto" || v == "scroll"
}

// Registry is the rendering surface whose scroll positions are reset.
// Implementations may fail on any call; the controller isolates each failure.
type Registry interface {
	ResetWindow() error
	ResetScrollRoot() error
	ResetBody() error
	ListScrollableRegions() ([]Region, error)
	ResetRegion(Region) error
}
