// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package view

import (
	"errors"
	"strings"
	"sync"
)

// ErrUnknownView is returned when selecting an id that names no view.
var ErrUnknownView = errors.New("unknown view")

// Selection tracks which view is active. Explicit selection always wins;
// observing a path that contains ChatRoute forces the chat view, but only
// when the observed path changes.
type Selection struct {
	mu       sync.Mutex
	current  ID
	lastPath string
	observed bool
	onChange []func(prev, next ID)
}

// NewSelection returns a selection positioned on the default view.
func NewSelection() *Selection {
	return &Selection{current: Default}
}

// Restore sets the current view without notifying observers. Unknown ids
// fall back to the default view.
func (s *Selection) Restore(id ID) {
	if !Valid(id) {
		id = Default
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = id
}

// Current returns the active view.
func (s *Selection) Current() ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnChange registers an observer called with the previous and next view on
// every transition to a different view.
func (s *Selection) OnChange(fn func(prev, next ID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Select makes id the active view.
func (s *Selection) Select(id ID) error {
	if !Valid(id) {
		return ErrUnknownView
	}
	s.transition(id)
	return nil
}

// ObservePath applies the route override for a newly observed path. It
// returns true if the path forced a transition to chat.
func (s *Selection) ObservePath(path string) bool {
	s.mu.Lock()
	if s.observed && path == s.lastPath {
		s.mu.Unlock()
		return false
	}
	s.observed = true
	s.lastPath = path
	s.mu.Unlock()

	if !strings.Contains(path, ChatRoute) {
		return false
	}
	s.transition(Chat)
	return true
}

func (s *Selection) transition(next ID) {
	s.mu.Lock()
	prev := s.current
	s.current = next
	observers := append([]func(prev, next ID){}, s.onChange...)
	s.mu.Unlock()

	if prev == next {
		return
	}
	for _, fn := range observers {
		fn(prev, next)
	}
}
