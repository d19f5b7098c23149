// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/iotcentral/internal/chat"
	"github.com/olegiv/iotcentral/internal/middleware"
)

// maxChatMessage bounds a single prompt.
const maxChatMessage = 4000

// ChatHandler handles the chat form posts. Transcripts are keyed by the
// session token.
type ChatHandler struct {
	sessionManager *scs.SessionManager
	chat           *chat.Service
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(sm *scs.SessionManager, chatService *chat.Service) *ChatHandler {
	return &ChatHandler{
		sessionManager: sm,
		chat:           chatService,
	}
}

// Send handles POST /dashboard/chat.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.sessionManager, RouteChat) {
		return
	}
	ctx := r.Context()

	text := r.FormValue("message")
	if len([]rune(text)) > maxChatMessage {
		flashError(w, r, h.sessionManager, RouteChat, "Message is too long")
		return
	}

	if _, err := h.chat.Send(ctx, h.sessionManager.Token(ctx), text); err != nil {
		logAndInternalError(w, "failed to store chat transcript", "error", err, "user_id", middleware.GetUserID(r))
		return
	}
	http.Redirect(w, r, RouteChat, http.StatusSeeOther)
}

// Reset handles POST /dashboard/chat/reset.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.chat.Reset(ctx, h.sessionManager.Token(ctx)); err != nil {
		logAndInternalError(w, "failed to reset chat transcript", "error", err, "user_id", middleware.GetUserID(r))
		return
	}
	flashAndRedirect(w, r, h.sessionManager, RouteChat, "Conversation cleared", flashTypeInfo)
}
