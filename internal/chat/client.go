// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// WireMessage is one entry of the completions request.
type WireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the completions request body.
type Request struct {
	Model    string        `json:"model"`
	Messages []WireMessage `json:"messages"`
}

// Completer posts a completions request and returns the raw response body.
// Error-status responses that carry a body are returned as a body, not an error.
type Completer interface {
	Complete(ctx context.Context, req Request) ([]byte, error)
}

// ClientConfig configures the HTTP completions client.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is a Completer speaking the OpenAI-compatible chat completions API.
type Client struct {
	api openai.Client
}

// NewClient creates a client with retries disabled.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		api: openai.NewClient(
			option.WithBaseURL(base),
			option.WithAPIKey(cfg.APIKey),
			option.WithMaxRetries(0),
			option.WithRequestTimeout(cfg.Timeout),
		),
	}
}

// Complete posts req to chat/completions.
func (c *Client) Complete(ctx context.Context, req Request) ([]byte, error) {
	var raw []byte
	err := c.api.Post(ctx, "chat/completions", req, &raw)
	if err == nil {
		return raw, nil
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.Response != nil && apiErr.Response.Body != nil {
		body, readErr := io.ReadAll(apiErr.Response.Body)
		if readErr == nil && len(body) > 0 {
			return body, nil
		}
	}
	return nil, fmt.Errorf("posting completion: %w", err)
}
