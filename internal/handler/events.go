// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/iotcentral/internal/store"
)

// EventsPerPage is the default number of events per page.
const EventsPerPage = 25

// maxEventsPerPage caps the ?limit parameter.
const maxEventsPerPage = 100

// EventsHandler serves the persisted system event log.
type EventsHandler struct {
	queries *store.Queries
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(db *sql.DB) *EventsHandler {
	return &EventsHandler{queries: store.New(db)}
}

// EventView is one event as returned to the dashboard.
type EventView struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	UserID    *int64    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventsPage is the JSON body of GET /dashboard/events.
type EventsPage struct {
	Events  []EventView `json:"events"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
	HasMore bool        `json:"has_more"`
}

// List handles GET /dashboard/events?page=N&limit=M, newest first.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := positiveParam(r, "page", 1)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid page")
		return
	}
	limit, err := positiveParam(r, "limit", EventsPerPage)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	limit = min(limit, maxEventsPerPage)

	// One extra row tells whether another page exists.
	rows, err := h.queries.ListEvents(r.Context(), int64(limit+1), int64((page-1)*limit))
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	out := EventsPage{Page: page, Limit: limit, Events: make([]EventView, 0, min(len(rows), limit))}
	if len(rows) > limit {
		out.HasMore = true
		rows = rows[:limit]
	}
	for _, e := range rows {
		ev := EventView{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Details:   formatMetadata(e.Metadata),
			CreatedAt: e.CreatedAt,
		}
		if e.UserID.Valid {
			id := e.UserID.Int64
			ev.UserID = &id
		}
		out.Events = append(out.Events, ev)
	}
	writeJSON(w, http.StatusOK, out)
}

func positiveParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}

// formatMetadata converts JSON metadata to readable text format.
// Example: {"url":"/dashboard/chat","error":"timeout"} -> "error: timeout, url: /dashboard/chat"
func formatMetadata(metadata string) string {
	if metadata == "" || metadata == "{}" {
		return ""
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(metadata), &data); err != nil {
		return metadata // Return as-is if not valid JSON
	}

	if len(data) == 0 {
		return ""
	}

	// Sort keys for consistent output order
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		var strValue string
		switch v := data[key].(type) {
		case string:
			strValue = v
		case float64:
			strValue = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			strValue = strconv.FormatBool(v)
		default:
			if b, err := json.Marshal(v); err == nil {
				strValue = string(b)
			}
		}
		parts = append(parts, key+": "+strValue)
	}

	return strings.Join(parts, ", ")
}
