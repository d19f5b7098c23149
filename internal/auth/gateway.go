// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth authenticates dashboard operators and hashes their passwords.
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
)

// User is a signed-in operator.
type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
}

// DisplayName returns "First Last", falling back to the email.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// SignUpRequest carries the sign-up form.
type SignUpRequest struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
	CaptchaToken    string
	RemoteIP        string
}

// Gateway errors.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrProviderUnavailable = errors.New("sign-in provider is not available")
	ErrNotSignedIn         = errors.New("not signed in")
	ErrCaptchaFailed       = errors.New("captcha verification failed")
)

// Validation messages shown to the user before any gateway call.
const (
	MsgPasswordMismatch = "Passwords do not match!"
	MsgAcceptTerms      = "Please agree to the terms and conditions"
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Please enter a valid email address"
	MsgPasswordRequired = "Password is required"
)

// ValidationError is a user-facing form error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthGateway is the identity provider behind the sign-in and sign-up screens.
type AuthGateway interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, req SignUpRequest) (*User, error)
	SignInWithProvider(ctx context.Context, provider string) (*User, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*User, error)
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateSignIn checks that both credentials are present.
func ValidateSignIn(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{MsgEmailRequired}
	}
	if password == "" {
		return &ValidationError{MsgPasswordRequired}
	}
	return nil
}

// Validate checks the sign-up form in the order the form reports problems:
// password confirmation first, then the terms checkbox, then required fields.
func (r SignUpRequest) Validate() error {
	if r.Password != r.ConfirmPassword {
		return &ValidationError{MsgPasswordMismatch}
	}
	if !r.AcceptTerms {
		return &ValidationError{MsgAcceptTerms}
	}
	if err := ValidateSignIn(r.Email, r.Password); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		return &ValidationError{MsgEmailInvalid}
	}
	return nil
}
