// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package chat proxies conversations to a chat completion service and keeps
// per-session transcripts in the cache.
package chat

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/iotcentral/internal/cache"
	"github.com/olegiv/iotcentral/internal/clock"
	"github.com/olegiv/iotcentral/internal/metrics"
)

// FallbackMessage is the assistant reply used when the service cannot be reached.
const FallbackMessage = "Failed to get a response from the AI service."

// Roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one transcript entry.
type Message struct {
	ID      string    `json:"id"`
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// HTML renders assistant messages from markdown. Other roles are shown verbatim.
func (m Message) HTML() template.HTML {
	if m.Role == RoleAssistant {
		return RenderMarkdown(m.Content)
	}
	return template.HTML(template.HTMLEscapeString(m.Content))
}

// Service sends chat turns and stores transcripts.
type Service struct {
	completer   Completer
	transcripts *cache.Typed[[]Message]
	model       string
	clock       clock.Clock
	logger      *slog.Logger
}

// NewService creates a chat service. Transcripts expire after ttl.
func NewService(completer Completer, store cache.Cache, model string, ttl time.Duration, c clock.Clock, logger *slog.Logger) *Service {
	if c == nil {
		c = clock.Real{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		completer:   completer,
		transcripts: cache.NewTyped[[]Message](store, ttl),
		model:       model,
		clock:       c,
		logger:      logger,
	}
}

func transcriptKey(sessionKey string) string {
	return "chat:" + sessionKey
}

// Transcript returns the stored conversation for a session.
func (s *Service) Transcript(ctx context.Context, sessionKey string) ([]Message, error) {
	msgs, _, err := s.transcripts.Get(ctx, transcriptKey(sessionKey))
	if err != nil {
		return nil, fmt.Errorf("loading transcript: %w", err)
	}
	return msgs, nil
}

// Reset discards a session's conversation.
func (s *Service) Reset(ctx context.Context, sessionKey string) error {
	return s.transcripts.Delete(ctx, transcriptKey(sessionKey))
}

// Send appends text as a user message, requests a completion for the whole
// conversation and appends the assistant reply. Blank input is ignored.
// Transport failures produce FallbackMessage rather than an error; the
// returned error only reports transcript storage problems.
func (s *Service) Send(ctx context.Context, sessionKey, text string) ([]Message, error) {
	history, err := s.Transcript(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return history, nil
	}

	history = append(history, s.message(RoleUser, text))
	if err := s.transcripts.Set(ctx, transcriptKey(sessionKey), history); err != nil {
		return nil, fmt.Errorf("saving transcript: %w", err)
	}

	reply := s.complete(ctx, history)
	history = append(history, s.message(RoleAssistant, reply))
	if err := s.transcripts.Set(ctx, transcriptKey(sessionKey), history); err != nil {
		return nil, fmt.Errorf("saving transcript: %w", err)
	}
	return history, nil
}

func (s *Service) complete(ctx context.Context, history []Message) string {
	req := Request{Model: s.model, Messages: make([]WireMessage, len(history))}
	for i, m := range history {
		req.Messages[i] = WireMessage{Role: m.Role, Content: m.Content}
	}

	body, err := s.completer.Complete(ctx, req)
	if err != nil {
		metrics.ChatRequests.WithLabelValues("transport_error").Inc()
		s.logger.Warn("chat completion failed", "error", err)
		return FallbackMessage
	}

	resp, err := Decode(body)
	if err != nil {
		metrics.ChatRequests.WithLabelValues("invalid_payload").Inc()
		s.logger.Warn("chat completion failed", "error", err, "bytes", len(body))
		return FallbackMessage
	}

	metrics.ChatRequests.WithLabelValues(resp.Kind.String()).Inc()
	return resp.Text
}

func (s *Service) message(role, content string) Message {
	return Message{ID: uuid.NewString(), Role: role, Content: content, At: s.clock.Now()}
}
