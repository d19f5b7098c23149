// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the cookie session manager and the typed
// per-session state kept in it.
package session

import (
	"context"
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	KeyUserID           = "user_id"
	KeyUserName         = "user_name"
	KeyView             = "view"
	KeySidebarCollapsed = "sidebar_collapsed"
	KeyPreferences      = "preferences"
)

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		// __Host- requires Secure, Path=/ and no Domain.
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

func init() {
	gob.Register(Preferences{})
}

// Preferences are the settings toggles applied on render.
type Preferences struct {
	EmailNotifications bool   `json:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications"`
	Theme              string `json:"theme"`
	CompactMode        bool   `json:"compact_mode"`
	Animations         bool   `json:"animations"`
	SessionTimeout     int    `json:"session_timeout"` // minutes
	DataRetention      int    `json:"data_retention"`  // days
}

// DefaultPreferences returns the settings used before the operator changes anything.
func DefaultPreferences() Preferences {
	return Preferences{
		EmailNotifications: true,
		PushNotifications:  true,
		Theme:              "dark",
		CompactMode:        false,
		Animations:         true,
		SessionTimeout:     30,
		DataRetention:      90,
	}
}

// GetPreferences returns the stored preferences or the defaults.
func GetPreferences(ctx context.Context, sm *scs.SessionManager) Preferences {
	if p, ok := sm.Get(ctx, KeyPreferences).(Preferences); ok {
		return p
	}
	return DefaultPreferences()
}

// PutPreferences stores preferences in the session.
func PutPreferences(ctx context.Context, sm *scs.SessionManager, p Preferences) {
	sm.Put(ctx, KeyPreferences, p)
}

// SidebarCollapsed reports whether the operator collapsed the sidebar.
func SidebarCollapsed(ctx context.Context, sm *scs.SessionManager) bool {
	return sm.GetBool(ctx, KeySidebarCollapsed)
}

// ToggleSidebar flips the sidebar state and returns the new value.
func ToggleSidebar(ctx context.Context, sm *scs.SessionManager) bool {
	collapsed := !sm.GetBool(ctx, KeySidebarCollapsed)
	sm.Put(ctx, KeySidebarCollapsed, collapsed)
	return collapsed
}

// LoadOnly loads the session into the request context without wrapping the
// response writer, so the handler can hijack the connection. Changes made
// during the request are not saved.
func LoadOnly(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(sm.Cookie.Name); err == nil {
				token = cookie.Value
			}
			ctx, err := sm.Load(r.Context(), token)
			if err != nil {
				sm.ErrorFunc(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
