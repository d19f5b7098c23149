// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/iotcentral/internal/auth"
	"github.com/olegiv/iotcentral/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyRequestPath ContextKey = "request_path"
)

// SignInPath is where unauthenticated requests are sent.
const SignInPath = "/signin"

// RequireSignIn loads the signed-in operator through gw and stores it in the
// request context. Requests without one are redirected to the sign-in page;
// WebSocket upgrades get 401 since they cannot follow a redirect.
func RequireSignIn(gw auth.AuthGateway) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := gw.CurrentUser(r.Context())
			if err != nil {
				if !errors.Is(err, auth.ErrNotSignedIn) {
					slog.Error("failed to load signed-in user", "error", err, "path", r.URL.Path)
				}
				if isUpgrade(r) {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, SignInPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectIfSignedIn sends operators who already have a session from the
// sign-in and sign-up pages to the dashboard.
func RedirectIfSignedIn(sm *scs.SessionManager, target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && sm.GetInt64(r.Context(), session.KeyUserID) != 0 {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser returns the operator stored by RequireSignIn, or nil.
func GetUser(r *http.Request) *auth.User {
	user, _ := r.Context().Value(ContextKeyUser).(*auth.User)
	return user
}

// GetUserID returns the current operator's ID, or 0.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// RequestPath stores the request path in the context for the event log.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, _ := ctx.Value(ContextKeyRequestPath).(string)
	return path
}
