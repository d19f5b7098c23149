// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeout(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		handler  http.HandlerFunc
		wantCode int
		wantBody string
	}{
		{
			name:    "fast view render passes through",
			timeout: 5 * time.Second,
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte("<main>kpis</main>"))
			},
			wantCode: http.StatusCreated,
			wantBody: "<main>kpis</main>",
		},
		{
			name:    "stalled chat completion gets 503",
			timeout: 20 * time.Millisecond,
			handler: func(w http.ResponseWriter, r *http.Request) {
				<-r.Context().Done()
				time.Sleep(20 * time.Millisecond)
			},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "Request timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Timeout(tt.timeout)(tt.handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/chat", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestTimeout_LateWritesAreRejected(t *testing.T) {
	release := make(chan struct{})
	results := make(chan error, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		<-release
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("All systems nominal"))
		results <- err
	})

	rec := httptest.NewRecorder()
	Timeout(10*time.Millisecond)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/dashboard/chat", nil))
	close(release)

	select {
	case err := <-results:
		assert.ErrorIs(t, err, http.ErrHandlerTimeout)
	case <-time.After(5 * time.Second):
		t.Fatal("handler never finished")
	}
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Request timeout", rec.Body.String())
}

func TestTimeout_ResponseStartedBeforeDeadline(t *testing.T) {
	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		close(started)
		<-r.Context().Done()
	})

	rec := httptest.NewRecorder()
	Timeout(20*time.Millisecond)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/events", nil))
	<-started

	assert.Equal(t, http.StatusAccepted, rec.Code, "a started response is not replaced")
	assert.Empty(t, rec.Body.String())
}

func TestTimeout_SkipsWebSocketUpgrade(t *testing.T) {
	var hadDeadline, wrapped bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadDeadline = r.Context().Deadline()
		_, wrapped = w.(*timeoutWriter)
		w.WriteHeader(http.StatusSwitchingProtocols)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/live", nil)
	req.Header.Set("Upgrade", "WebSocket")
	rec := httptest.NewRecorder()
	Timeout(time.Millisecond)(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusSwitchingProtocols, rec.Code)
	assert.False(t, hadDeadline, "upgrades outlive the request deadline")
	assert.False(t, wrapped, "upgrades need the raw writer to hijack")
}
