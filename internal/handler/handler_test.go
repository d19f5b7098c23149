// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/iotcentral/internal/auth"
	"github.com/olegiv/iotcentral/internal/cache"
	"github.com/olegiv/iotcentral/internal/chat"
	"github.com/olegiv/iotcentral/internal/clock"
	"github.com/olegiv/iotcentral/internal/live"
	"github.com/olegiv/iotcentral/internal/middleware"
	"github.com/olegiv/iotcentral/internal/render"
	"github.com/olegiv/iotcentral/internal/session"
	"github.com/olegiv/iotcentral/internal/store"
	"github.com/olegiv/iotcentral/internal/telemetry"
	"github.com/olegiv/iotcentral/internal/testutil"
	"github.com/olegiv/iotcentral/web"
)

// stubCompleter answers every chat request with body or err.
type stubCompleter struct {
	body []byte
	err  error
}

func (s *stubCompleter) Complete(context.Context, chat.Request) ([]byte, error) {
	return s.body, s.err
}

type testEnv struct {
	db        *sql.DB
	sm        *scs.SessionManager
	completer *stubCompleter
	hub       *live.Hub
	handler   http.Handler
	client    *testutil.Client
}

// newTestEnv wires the handlers into a router shaped like the server's,
// without CSRF and rate limiting.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	sm := testutil.TestSessionManager(t, db)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templatesFS, SessionManager: sm})
	require.NoError(t, err)

	transcripts := cache.NewMemoryCache(cache.MemoryOptions{})
	t.Cleanup(func() { _ = transcripts.Close() })
	completer := &stubCompleter{body: []byte(`{"output_text":"All systems nominal"}`)}
	chatService := chat.NewService(completer, transcripts, "test-model", time.Hour, nil, testutil.TestLogger())

	gen := telemetry.NewGenerator(clock.Real{}, nil)
	hub := live.NewHub(gen, clock.Real{}, live.Config{FeedInterval: time.Hour, StreamInterval: time.Hour}, testutil.TestLogger())
	t.Cleanup(hub.Close)

	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	t.Cleanup(lp.Close)

	gw := auth.NewLocalGateway(db, sm, nil)
	authHandler := NewAuthHandler(renderer, sm, gw, lp)
	dashboardHandler := NewDashboardHandler(renderer, sm, chatService, gen)
	chatHandler := NewChatHandler(sm, chatService)
	liveHandler := NewLiveHandler(context.Background(), hub, sm, testutil.TestLogger())

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(session.LoadOnly(sm))
		r.Use(middleware.RequireSignIn(gw))
		r.Get(RouteLive, liveHandler.Serve)
	})
	r.Group(func(r chi.Router) {
		r.Use(sm.LoadAndSave)

		r.Get(RouteSignIn, authHandler.SignInForm)
		r.Post(RouteSignIn, authHandler.SignIn)
		r.Post(RouteSignInProvider, authHandler.SignInWithProvider)
		r.Get(RouteSignUp, authHandler.SignUpForm)
		r.Post(RouteSignUp, authHandler.SignUp)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSignIn(gw))
			r.Post(RouteSignOut, authHandler.SignOut)
			r.Get(RouteDashboard, dashboardHandler.Show)
			r.Get(RouteDashboardView, dashboardHandler.Show)
			r.Post(RouteSelectView, dashboardHandler.Select)
			r.Post(RouteSidebar, dashboardHandler.ToggleSidebar)
			r.Post(RouteSettings, dashboardHandler.UpdateSettings)
			r.Post(RouteChat, chatHandler.Send)
			r.Post(RouteChatReset, chatHandler.Reset)
		})
	})

	require.NoError(t, store.SeedDemoOperator(context.Background(), db, auth.HashPassword))

	return &testEnv{
		db:        db,
		sm:        sm,
		completer: completer,
		hub:       hub,
		handler:   r,
		client:    testutil.NewClient(r),
	}
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.client.Do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (e *testEnv) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")
	return e.client.Do(req)
}

func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	rec := e.post(RouteSignIn, url.Values{
		"email":    {store.DemoEmail},
		"password": {store.DemoPassword},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, RouteDashboard, rec.Header().Get("Location"))
}

// assertRedirect checks a 303 to location.
func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, location, rec.Header().Get("Location"))
}
