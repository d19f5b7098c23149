// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/iotcentral/internal/cache"
	"github.com/olegiv/iotcentral/internal/clock"
)

type fakeCompleter struct {
	body  []byte
	err   error
	calls []Request
}

func (f *fakeCompleter) Complete(_ context.Context, req Request) ([]byte, error) {
	f.calls = append(f.calls, req)
	return f.body, f.err
}

func newTestService(t *testing.T, fc Completer) *Service {
	t.Helper()
	store := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = store.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(fc, store, "test-model", time.Hour, clock.NewFake(time.Unix(0, 0)), logger)
}

func TestService_SendAppendsBothTurns(t *testing.T) {
	ctx := context.Background()
	fc := &fakeCompleter{body: []byte(`{"choices":[{"message":{"content":"Hi there"}}]}`)}
	svc := newTestService(t, fc)

	msgs, err := svc.Send(ctx, "s1", "  hello  ")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Hi there", msgs[1].Content)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)

	require.Len(t, fc.calls, 1)
	assert.Equal(t, "test-model", fc.calls[0].Model)
	assert.Equal(t, []WireMessage{{Role: RoleUser, Content: "hello"}}, fc.calls[0].Messages)
}

func TestService_SendIncludesHistory(t *testing.T) {
	ctx := context.Background()
	fc := &fakeCompleter{body: []byte(`{"output_text":"ok"}`)}
	svc := newTestService(t, fc)

	_, err := svc.Send(ctx, "s1", "first")
	require.NoError(t, err)
	msgs, err := svc.Send(ctx, "s1", "second")
	require.NoError(t, err)

	assert.Len(t, msgs, 4)
	require.Len(t, fc.calls, 2)
	assert.Len(t, fc.calls[1].Messages, 3)
	assert.Equal(t, "second", fc.calls[1].Messages[2].Content)
}

func TestService_BlankInputIgnored(t *testing.T) {
	fc := &fakeCompleter{}
	svc := newTestService(t, fc)

	msgs, err := svc.Send(context.Background(), "s1", "   \n\t")
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Empty(t, fc.calls)
}

func TestService_TransportFailureUsesFallback(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("dial tcp: connection refused")}
	svc := newTestService(t, fc)

	msgs, err := svc.Send(context.Background(), "s1", "hello")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, FallbackMessage, msgs[1].Content)
}

func TestService_InvalidPayloadUsesFallback(t *testing.T) {
	fc := &fakeCompleter{body: []byte("not json")}
	svc := newTestService(t, fc)

	msgs, err := svc.Send(context.Background(), "s1", "hello")
	require.NoError(t, err)
	assert.Equal(t, FallbackMessage, msgs[len(msgs)-1].Content)
}

func TestService_TranscriptsAreIsolatedAndResettable(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, &fakeCompleter{body: []byte(`{"result":"r"}`)})

	_, err := svc.Send(ctx, "a", "hi")
	require.NoError(t, err)

	other, err := svc.Transcript(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, svc.Reset(ctx, "a"))
	gone, err := svc.Transcript(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestClient_PostsBearerRequest(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"pong"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL + "/openai/v1", APIKey: "gsk_test"})
	body, err := c.Complete(context.Background(), Request{
		Model:    "m",
		Messages: []WireMessage{{Role: RoleUser, Content: "ping"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer gsk_test", gotAuth)
	assert.Equal(t, "/openai/v1/chat/completions", gotPath)
	assert.Equal(t, "m", gotBody.Model)
	resp, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Text)
}

func TestClient_ErrorStatusReturnsBody(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k"})
	body, err := c.Complete(context.Background(), Request{Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "retries are disabled")

	resp, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, KindRaw, resp.Kind)
	assert.Contains(t, resp.Text, "overloaded")
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(ClientConfig{BaseURL: url, APIKey: "k", Timeout: time.Second})
	_, err := c.Complete(context.Background(), Request{Model: "m"})
	assert.Error(t, err)
}
