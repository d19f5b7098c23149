// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package view defines the dashboard views, the sidebar that lists them and
// the state machine that decides which one is shown.
package view

// ID identifies a dashboard view.
type ID string

// Dashboard views.
const (
	Dashboard    ID = "dashboard"
	Chat         ID = "chat"
	LiveIoT      ID = "live-iot"
	DeviceHealth ID = "device-health"
	Maintenance  ID = "maintenance"
	KPIs         ID = "kpis"
	Servers      ID = "servers"
	Settings     ID = "settings"
)

// Default is the view shown before any navigation.
const Default = Dashboard

// ChatRoute is the path fragment that forces the chat view.
const ChatRoute = "/dashboard/chat"

// Item is a sidebar entry.
type Item struct {
	ID    ID
	Label string
	Icon  string
	Badge int
	Pulse bool
	Glow  bool
}

var items = []Item{
	{ID: Dashboard, Label: "Dashboard", Icon: "layout-dashboard"},
	{ID: Chat, Label: "Chat", Icon: "message-square-text"},
	{ID: LiveIoT, Label: "Live IoT Infrastructure", Icon: "activity", Pulse: true},
	{ID: DeviceHealth, Label: "Device Health", Icon: "heart-pulse"},
	{ID: Maintenance, Label: "Predictive Maintenance", Icon: "alert-triangle", Badge: 3, Glow: true},
	{ID: KPIs, Label: "Infrastructure KPIs", Icon: "gauge"},
	{ID: Servers, Label: "Server Management", Icon: "server"},
	{ID: Settings, Label: "Settings", Icon: "settings"},
}

// Items returns the sidebar entries in display order.
func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Valid reports whether id names a known view.
func Valid(id ID) bool {
	_, ok := Lookup(id)
	return ok
}

// Lookup returns the sidebar entry for id.
func Lookup(id ID) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Title returns the label of a view, or the label of the default view for
// unknown ids.
func Title(id ID) string {
	if it, ok := Lookup(id); ok {
		return it.Label
	}
	it, _ := Lookup(Default)
	return it.Label
}

// Path returns the dashboard URL of a view. The default view lives at the
// dashboard root.
func Path(id ID) string {
	if id == Default || !Valid(id) {
		return "/dashboard"
	}
	return "/dashboard/" + string(id)
}
