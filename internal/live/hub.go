// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package live

import (
	"log/slog"
	"sync"

	"github.com/olegiv/iotcentral/internal/clock"
	"github.com/olegiv/iotcentral/internal/telemetry"
)

// Hub creates live sessions and tracks the open ones so they can be closed
// on shutdown.
type Hub struct {
	gen    *telemetry.Generator
	clock  clock.Clock
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewHub creates a hub. A nil clock uses the wall clock.
func NewHub(gen *telemetry.Generator, c clock.Clock, cfg Config, logger *slog.Logger) *Hub {
	if c == nil {
		c = clock.Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		gen:      gen,
		clock:    c,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// NewSession creates and registers a session. It fails once the hub is closed.
func (h *Hub) NewSession() (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrSessionClosed
	}
	s := NewSession(h.gen, h.clock, h.cfg, h.logger)
	h.sessions[s.ID()] = s
	return s, nil
}

// Release closes a session and forgets it.
func (h *Hub) Release(s *Session) {
	s.Close()
	h.mu.Lock()
	delete(h.sessions, s.ID())
	h.mu.Unlock()
}

// Count returns the number of registered sessions.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close closes every session and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	sessions := make([]*Session, 0, len(h.sessions))
	for id, s := range h.sessions {
		sessions = append(sessions, s)
		delete(h.sessions, id)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	if len(sessions) > 0 {
		h.logger.Info("closed live sessions", "count", len(sessions))
	}
}
