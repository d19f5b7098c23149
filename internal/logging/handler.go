// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that also persists warnings and
// errors to the system event log.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/iotcentral/internal/middleware"
	"github.com/olegiv/iotcentral/internal/store"
)

// Event levels stored in system_events.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Event categories stored in system_events.
const (
	CategoryAuth   = "auth"
	CategoryChat   = "chat"
	CategoryLive   = "live"
	CategoryCache  = "cache"
	CategorySystem = "system"
)

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// records at or above its level to the system_events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
}

// NewEventLogHandler creates a handler persisting WARN and above.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a handler with a custom minimum persisted level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeToEventLog(ctx, r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
		attrs:   merged,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
		attrs:   h.attrs,
	}
}

func (h *EventLogHandler) writeToEventLog(ctx context.Context, r slog.Record) {
	attrs := h.collect(r)
	if _, ok := attrs["url"]; !ok && ctx != nil {
		if p := middleware.GetRequestPath(ctx); p != "" {
			attrs["url"] = slog.StringValue(p)
		}
	}

	var userID sql.NullInt64
	if a, ok := attrs["user_id"]; ok && a.Kind() == slog.KindInt64 {
		userID = sql.NullInt64{Int64: a.Int64(), Valid: true}
	}

	params := store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  category(r.Message, attrs),
		Message:   r.Message,
		UserID:    userID,
		Metadata:  metadata(attrs),
		CreatedAt: r.Time,
	}

	// Background context so the event survives a cancelled request.
	_, err := h.queries.CreateEvent(context.Background(), params)
	if err != nil && params.UserID.Valid {
		// The user may have been deleted; keep the event without the reference.
		params.UserID = sql.NullInt64{}
		_, err = h.queries.CreateEvent(context.Background(), params)
	}
	if err != nil {
		h.reportFailure(ctx, r.Message, err)
	}
}

// reportFailure logs a failed insert through the wrapped handler only, so it
// cannot recurse into the event log.
func (h *EventLogHandler) reportFailure(ctx context.Context, msg string, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !h.inner.Enabled(ctx, slog.LevelDebug) {
		return
	}
	rec := slog.NewRecord(time.Now(), slog.LevelDebug, "system event not persisted", 0)
	rec.AddAttrs(slog.String("event", msg), slog.Any("error", err))
	_ = h.inner.Handle(ctx, rec)
}

func (h *EventLogHandler) collect(r slog.Record) map[string]slog.Value {
	attrs := make(map[string]slog.Value, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Resolve()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Resolve()
		return true
	})
	return attrs
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarning
	default:
		return LevelInfo
	}
}

// category returns the explicit "category" attribute or infers one from the message.
func category(msg string, attrs map[string]slog.Value) string {
	if c, ok := attrs["category"]; ok && c.String() != "" {
		return c.String()
	}

	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") ||
		strings.Contains(msg, "sign") || strings.Contains(msg, "captcha"):
		return CategoryAuth
	case strings.Contains(msg, "chat") || strings.Contains(msg, "completion"):
		return CategoryChat
	case strings.Contains(msg, "websocket") || strings.Contains(msg, "live") ||
		strings.Contains(msg, "feed") || strings.Contains(msg, "pulse"):
		return CategoryLive
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis"):
		return CategoryCache
	default:
		return CategorySystem
	}
}

func metadata(attrs map[string]slog.Value) string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		if k == "category" {
			continue
		}
		out[k] = v.String()
	}
	if len(out) == 0 {
		return "{}"
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "{}"
	}
	return string(b)
}
