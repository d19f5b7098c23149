// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for handler and integration tests.
package testutil

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/iotcentral/internal/session"
	"github.com/olegiv/iotcentral/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a migrated SQLite database in the test's temp directory.
// It is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "iotcentral-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// TestSessionManager creates a development-mode session manager backed by db.
func TestSessionManager(t *testing.T, db *sql.DB) *scs.SessionManager {
	t.Helper()
	return session.New(db, true)
}

// Client replays session cookies across requests to a handler, the way a
// browser would.
type Client struct {
	handler http.Handler
	cookies map[string]*http.Cookie
}

// NewClient wraps h. Wrap h in the session manager's LoadAndSave first.
func NewClient(h http.Handler) *Client {
	return &Client{handler: h, cookies: make(map[string]*http.Cookie)}
}

// Do serves req with the stored cookies and keeps any cookies set in reply.
func (c *Client) Do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

// Cookies returns the cookies the client currently holds.
func (c *Client) Cookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(c.cookies))
	for _, ck := range c.cookies {
		out = append(out, ck)
	}
	return out
}
