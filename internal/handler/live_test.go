// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/iotcentral/internal/live"
	"github.com/olegiv/iotcentral/internal/view"
)

func liveURL(srv *httptest.Server, path string) string {
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + RouteLive
	if path != "" {
		u += "?" + QueryPath + "=" + path
	}
	return u
}

func cookieHeader(env *testEnv) http.Header {
	h := http.Header{}
	for _, c := range env.client.Cookies() {
		h.Add("Cookie", c.Name+"="+c.Value)
	}
	return h
}

// readCommand reads frames until one of type want arrives.
func readCommand(t *testing.T, conn *websocket.Conn, want string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var cmd map[string]any
		require.NoError(t, conn.ReadJSON(&cmd))
		if cmd["type"] == want {
			return cmd
		}
	}
}

func TestLive_RequiresSignIn(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.handler)
	t.Cleanup(srv.Close)

	_, resp, err := websocket.DefaultDialer.Dial(liveURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLive_SeedsFeedAndNavigates(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	srv := httptest.NewServer(env.handler)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial(liveURL(srv, RouteDashboard), cookieHeader(env))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	seed := readCommand(t, conn, live.CmdFeedSeed)
	assert.NotEmpty(t, seed["data"])
	assert.Eventually(t, func() bool { return env.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(live.Inbound{Type: live.MsgNavigate, View: string(view.KPIs)}))
	swap := readCommand(t, conn, live.CmdViewSwap)
	data, ok := swap["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(view.KPIs), data["view"])
	assert.Equal(t, "/dashboard/kpis", data["path"])
}

func TestLive_OpensOnStoredView(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	env.get("/dashboard/servers")
	srv := httptest.NewServer(env.handler)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial(liveURL(srv, "/dashboard/servers"), cookieHeader(env))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// Navigating to the dashboard from servers mounts the feed.
	require.NoError(t, conn.WriteJSON(live.Inbound{Type: live.MsgNavigate, View: string(view.Dashboard)}))
	readCommand(t, conn, live.CmdFeedSeed)
	swap := readCommand(t, conn, live.CmdViewSwap)
	assert.Equal(t, string(view.Dashboard), swap["data"].(map[string]any)["view"])
}
