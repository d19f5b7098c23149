// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/iotcentral/internal/middleware"
	"github.com/olegiv/iotcentral/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.NewDB(filepath.Join(t.TempDir(), "logging.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))
	return db
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, db *sql.DB) []store.Event {
	t.Helper()
	events, err := store.New(db).ListEvents(context.Background(), 50, 0)
	require.NoError(t, err)
	return events
}

func TestEventLogHandler_PersistsWarnAndAbove(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Info("server started")
	logger.Debug("tick")
	logger.Warn("redis unavailable, falling back to memory cache")
	logger.Error("chat completion failed", "status", 502)

	events := listEvents(t, db)
	require.Len(t, events, 2)

	assert.Equal(t, LevelError, events[0].Level)
	assert.Equal(t, CategoryChat, events[0].Category)
	assert.Equal(t, LevelWarning, events[1].Level)
	assert.Equal(t, CategoryCache, events[1].Category)
}

func createUser(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	now := time.Now().UTC()
	u, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        "operator@example.com",
		PasswordHash: "x",
		FirstName:    "Demo",
		LastName:     "Operator",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return u.ID
}

// recordingHandler keeps the level and message of every record it handles.
type recordingHandler struct {
	mu      sync.Mutex
	records []string
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Level.String()+" "+r.Message)
	return nil
}
func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestEventLogHandler_ExplicitCategoryAndMetadata(t *testing.T) {
	db := testDB(t)
	userID := createUser(t, db)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("session", "abc")

	logger.Warn("something odd", "category", CategoryLive, "user_id", userID, "view", "chat")

	events := listEvents(t, db)
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, CategoryLive, e.Category)
	assert.True(t, e.UserID.Valid)
	assert.Equal(t, userID, e.UserID.Int64)

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(e.Metadata), &meta))
	assert.Equal(t, "abc", meta["session"])
	assert.Equal(t, "chat", meta["view"])
	assert.NotContains(t, meta, "category")
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))

	logger.Warn("login failed")
	logger.Error("login lockout triggered")

	events := listEvents(t, db)
	require.Len(t, events, 1)
	assert.Equal(t, CategoryAuth, events[0].Category)
}

func TestCategory_Inference(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"sign-up rejected", CategoryAuth},
		{"captcha verification failed", CategoryAuth},
		{"chat completion failed", CategoryChat},
		{"websocket write failed", CategoryLive},
		{"redis ping failed", CategoryCache},
		{"database purge failed", CategorySystem},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, category(tt.msg, nil))
		})
	}
}

func TestMetadata_Empty(t *testing.T) {
	assert.Equal(t, "{}", metadata(nil))
	assert.Equal(t, "{}", metadata(map[string]slog.Value{"category": slog.StringValue("x")}))
}

func TestEventLogHandler_RecordsRequestPath(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	ctx := context.WithValue(context.Background(), middleware.ContextKeyRequestPath, "/dashboard/chat")
	logger.WarnContext(ctx, "chat completion failed")

	events := listEvents(t, db)
	require.Len(t, events, 1)

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(events[0].Metadata), &meta))
	assert.Equal(t, "/dashboard/chat", meta["url"])
}

func TestEventLogHandler_UnknownUserKeepsEvent(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Warn("session for removed account", "user_id", int64(999))

	events := listEvents(t, db)
	require.Len(t, events, 1)
	assert.Equal(t, "session for removed account", events[0].Message)
	assert.False(t, events[0].UserID.Valid)
}

func TestEventLogHandler_ReportsFailedInsert(t *testing.T) {
	db := testDB(t)
	inner := &recordingHandler{}
	logger := slog.New(NewEventLogHandler(inner, db))
	require.NoError(t, db.Close())

	logger.Error("database purge failed")

	assert.Equal(t, []string{
		"ERROR database purge failed",
		"DEBUG system event not persisted",
	}, inner.records)
}
