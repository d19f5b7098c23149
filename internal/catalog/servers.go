// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"errors"
	"sync"
	"time"

	"github.com/olegiv/iotcentral/internal/clock"
)

// Server states.
const (
	ServerRunning     = "running"
	ServerStopped     = "stopped"
	ServerMaintenance = "maintenance"
)

// Server actions.
const (
	ActionRestart  = "restart"
	ActionPower    = "power"
	ActionSettings = "settings"
)

// ActionDuration is how long a server shows as processing after an action.
const ActionDuration = 2 * time.Second

// Errors returned by ActionTracker.Start.
var (
	ErrUnknownServer = errors.New("unknown server")
	ErrUnknownAction = errors.New("unknown server action")
)

// Server is a managed server node.
type Server struct {
	ID          string
	Name        string
	Location    string
	Status      string
	CPU         int
	Memory      int
	Storage     int
	Temperature int
	Uptime      string
	Tasks       int
	History     []int
}

// Resource is a pool allocation.
type Resource struct {
	Name      string
	Allocated float64
	Total     float64
	Color     string
}

// Percent is the allocated share of the pool.
func (r Resource) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return r.Allocated / r.Total * 100
}

// ServerCounts summarises servers by state.
type ServerCounts struct {
	Total       int
	Running     int
	Stopped     int
	Maintenance int
}

// Servers returns the managed servers.
func Servers() []Server {
	return []Server{
		{ID: "s1", Name: "Production Server 01", Location: "US-East-1", Status: ServerRunning, CPU: 67, Memory: 54, Storage: 78, Temperature: 42, Uptime: "45d 12h", Tasks: 24, History: []int{60, 65, 62, 70, 68, 67, 65}},
		{ID: "s2", Name: "Production Server 02", Location: "US-East-1", Status: ServerRunning, CPU: 45, Memory: 62, Storage: 45, Temperature: 38, Uptime: "32d 8h", Tasks: 18, History: []int{40, 45, 50, 48, 46, 45, 44}},
		{ID: "s3", Name: "Staging Server", Location: "EU-West-1", Status: ServerRunning, CPU: 23, Memory: 35, Storage: 32, Temperature: 35, Uptime: "12d 4h", Tasks: 8, History: []int{20, 25, 22, 28, 24, 23, 22}},
		{ID: "s4", Name: "Development Server", Location: "EU-West-1", Status: ServerMaintenance, CPU: 0, Memory: 0, Storage: 56, Temperature: 28, Uptime: "0d 0h", Tasks: 0, History: []int{50, 45, 40, 30, 20, 10, 0}},
		{ID: "s5", Name: "Backup Server", Location: "AP-South-1", Status: ServerStopped, CPU: 0, Memory: 0, Storage: 92, Temperature: 25, Uptime: "0d 0h", Tasks: 0, History: []int{0, 0, 0, 0, 0, 0, 0}},
		{ID: "s6", Name: "Analytics Server", Location: "US-West-2", Status: ServerRunning, CPU: 89, Memory: 76, Storage: 67, Temperature: 52, Uptime: "89d 22h", Tasks: 42, History: []int{75, 80, 85, 88, 90, 89, 88}},
	}
}

// Resources returns the pool allocations.
func Resources() []Resource {
	return []Resource{
		{Name: "Compute", Allocated: 780, Total: 1000, Color: "primary"},
		{Name: "Memory", Allocated: 256, Total: 512, Color: "accent"},
		{Name: "Storage", Allocated: 4.2, Total: 10, Color: "secondary"},
		{Name: "Network", Allocated: 850, Total: 1000, Color: "primary"},
	}
}

// CountServers summarises servers by state.
func CountServers(servers []Server) ServerCounts {
	c := ServerCounts{Total: len(servers)}
	for _, s := range servers {
		switch s.Status {
		case ServerRunning:
			c.Running++
		case ServerStopped:
			c.Stopped++
		case ServerMaintenance:
			c.Maintenance++
		}
	}
	return c
}

func findServer(id string) bool {
	for _, s := range Servers() {
		if s.ID == id {
			return true
		}
	}
	return false
}

func validAction(a string) bool {
	return a == ActionRestart || a == ActionPower || a == ActionSettings
}

// ActionTracker marks servers as processing for ActionDuration after an
// action. A new action on the same server replaces the pending one and
// restarts its timer.
type ActionTracker struct {
	clock clock.Clock

	mu       sync.Mutex
	active   map[string]trackedAction
	seq      uint64
	onChange func(serverID, action string, processing bool)
}

type trackedAction struct {
	action string
	seq    uint64
	timer  clock.Timer
}

// NewActionTracker creates a tracker driven by c.
func NewActionTracker(c clock.Clock) *ActionTracker {
	return &ActionTracker{clock: c, active: make(map[string]trackedAction)}
}

// OnChange registers a callback invoked when a server starts or stops processing.
func (t *ActionTracker) OnChange(fn func(serverID, action string, processing bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Start marks serverID as processing action.
func (t *ActionTracker) Start(serverID, action string) error {
	if !findServer(serverID) {
		return ErrUnknownServer
	}
	if !validAction(action) {
		return ErrUnknownAction
	}

	t.mu.Lock()
	if prev, ok := t.active[serverID]; ok {
		prev.timer.Stop()
	}
	t.seq++
	seq := t.seq
	t.active[serverID] = trackedAction{
		action: action,
		seq:    seq,
		timer:  t.clock.AfterFunc(ActionDuration, func() { t.clear(serverID, seq) }),
	}
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(serverID, action, true)
	}
	return nil
}

func (t *ActionTracker) clear(serverID string, seq uint64) {
	t.mu.Lock()
	cur, ok := t.active[serverID]
	if !ok || cur.seq != seq {
		t.mu.Unlock()
		return
	}
	delete(t.active, serverID)
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(serverID, cur.action, false)
	}
}

// Processing returns the pending action for serverID, if any.
func (t *ActionTracker) Processing(serverID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.active[serverID]
	return a.action, ok
}

// Snapshot returns all pending actions keyed by server id.
func (t *ActionTracker) Snapshot() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]string, len(t.active))
	for id, a := range t.active {
		out[id] = a.action
	}
	return out
}

// Stop cancels all pending clears and forgets every action.
func (t *ActionTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, a := range t.active {
		a.timer.Stop()
		delete(t.active, id)
	}
}
