// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package captcha verifies reCAPTCHA v3 tokens submitted with the sign-up form.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultVerifyURL is the reCAPTCHA verification endpoint.
	DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	// ActionSignUp is the action name the sign-up page executes.
	ActionSignUp = "signup"
	// DefaultMinScore is the lowest accepted v3 score.
	DefaultMinScore = 0.5

	verifyTimeout = 10 * time.Second
)

// FormField is the form field carrying the token.
const FormField = "g-recaptcha-response"

// Errors returned by Verify.
var (
	ErrMissingToken = errors.New("missing captcha token")
	ErrRejected     = errors.New("captcha rejected")
)

// VerifyResponse is the siteverify API response.
type VerifyResponse struct {
	Success     bool     `json:"success"`
	Score       float64  `json:"score"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier checks tokens against the siteverify endpoint.
type Verifier struct {
	secret    string
	verifyURL string
	action    string
	minScore  float64
	client    *http.Client
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithVerifyURL overrides the siteverify endpoint.
func WithVerifyURL(u string) Option {
	return func(v *Verifier) { v.verifyURL = u }
}

// WithMinScore overrides the accepted score threshold.
func WithMinScore(s float64) Option {
	return func(v *Verifier) { v.minScore = s }
}

// New creates a verifier for the sign-up action.
func New(secret string, opts ...Option) *Verifier {
	v := &Verifier{
		secret:    secret,
		verifyURL: DefaultVerifyURL,
		action:    ActionSignUp,
		minScore:  DefaultMinScore,
		client:    &http.Client{Timeout: verifyTimeout},
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Verify posts the token and checks success, action and score.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return ErrMissingToken
	}

	data := url.Values{}
	data.Set("secret", v.secret)
	data.Set("response", token)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("building captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("captcha verification request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse captcha response: %w", err)
	}

	switch {
	case !result.Success:
		return fmt.Errorf("%w: %s", ErrRejected, strings.Join(result.ErrorCodes, ","))
	case result.Action != "" && result.Action != v.action:
		return fmt.Errorf("%w: action %q", ErrRejected, result.Action)
	case result.Score < v.minScore:
		return fmt.Errorf("%w: score %.2f", ErrRejected, result.Score)
	}
	return nil
}

// TokenFromRequest extracts the token from the submitted form.
func TokenFromRequest(r *http.Request) string {
	return r.FormValue(FormField)
}
