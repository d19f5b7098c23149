// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/websocket"

	"github.com/olegiv/iotcentral/internal/live"
	"github.com/olegiv/iotcentral/internal/middleware"
	"github.com/olegiv/iotcentral/internal/session"
	"github.com/olegiv/iotcentral/internal/view"
)

// LiveHandler upgrades dashboard pages to a live session.
type LiveHandler struct {
	hub            *live.Hub
	sessionManager *scs.SessionManager
	upgrader       websocket.Upgrader
	logger         *slog.Logger
	baseCtx        context.Context
}

// NewLiveHandler creates a new LiveHandler. Sessions end when baseCtx is
// cancelled, which main ties to server shutdown.
func NewLiveHandler(baseCtx context.Context, hub *live.Hub, sm *scs.SessionManager, logger *slog.Logger) *LiveHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &LiveHandler{
		hub:            hub,
		sessionManager: sm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Serve handles GET /dashboard/live. The session opens on the view stored
// in the cookie session and the page path passed as ?path=.
func (h *LiveHandler) Serve(w http.ResponseWriter, r *http.Request) {
	initial := view.ID(h.sessionManager.GetString(r.Context(), session.KeyView))
	if !view.Valid(initial) {
		initial = view.Default
	}
	path := r.URL.Query().Get(QueryPath)
	if !strings.HasPrefix(path, RouteDashboard) {
		path = view.Path(initial)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	s, err := h.hub.NewSession()
	if err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		return
	}
	defer h.hub.Release(s)

	logger := h.logger.With("user_id", middleware.GetUserID(r))
	if err := s.Open(initial, path); err != nil {
		logger.Warn("live session open failed", "error", err)
		return
	}
	logger.Debug("live session opened", "session", s.ID(), "view", initial, "path", path)

	ctx, cancel := context.WithCancel(h.baseCtx)
	defer cancel()
	stop := context.AfterFunc(r.Context(), cancel)
	defer stop()

	live.Serve(ctx, conn, s, logger)
	logger.Debug("live session closed", "session", s.ID())
}
