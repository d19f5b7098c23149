// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/iotcentral/internal/auth"
	"github.com/olegiv/iotcentral/internal/captcha"
	"github.com/olegiv/iotcentral/internal/middleware"
	"github.com/olegiv/iotcentral/internal/render"
)

// Session keys that keep submitted form values across the redirect after a
// failed submission.
const (
	keyFormEmail     = "form_email"
	keyFormFirstName = "form_first_name"
	keyFormLastName  = "form_last_name"
)

// User-facing auth messages.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgSignInFailed       = "Sign-in failed. Please try again."
	msgSignUpFailed       = "Sign-up failed. Please try again."
	msgCaptchaFailed      = "Captcha verification failed. Please try again."
	msgProviderFailed     = "Sign-in with this provider is not available."
	msgSignedOut          = "You have been signed out."
)

// AuthHandler handles the sign-in, sign-up and sign-out routes.
type AuthHandler struct {
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	gateway         auth.AuthGateway
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. A nil LoginProtection disables lockout.
func NewAuthHandler(renderer *render.Renderer, sm *scs.SessionManager, gw auth.AuthGateway, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		sessionManager:  sm,
		gateway:         gw,
		loginProtection: lp,
	}
}

// SignInFormData is the sign-in template data.
type SignInFormData struct {
	Email string
}

// SignUpFormData is the sign-up template data.
type SignUpFormData struct {
	FirstName string
	LastName  string
	Email     string
}

// SignInForm renders the sign-in page.
func (h *AuthHandler) SignInForm(w http.ResponseWriter, r *http.Request) {
	data := SignInFormData{
		Email: h.sessionManager.PopString(r.Context(), keyFormEmail),
	}
	h.render(w, r, "auth/signin", "Sign In", data)
}

// SignIn handles the sign-in form submission.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.sessionManager, RouteSignIn) {
		return
	}
	ctx := r.Context()

	email := auth.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")
	h.sessionManager.Put(ctx, keyFormEmail, email)

	if err := auth.ValidateSignIn(email, password); err != nil {
		flashError(w, r, h.sessionManager, RouteSignIn, err.Error())
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.Warn("sign-in attempt on locked account", "email", email, "ip", clientIP(r))
			flashError(w, r, h.sessionManager, RouteSignIn,
				fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.gateway.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.failedSignIn(w, r, email)
			return
		}
		slog.Error("sign-in failed", "error", err, "email", email)
		flashError(w, r, h.sessionManager, RouteSignIn, msgSignInFailed)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}
	h.sessionManager.Remove(ctx, keyFormEmail)
	slog.Info("operator signed in", "user_id", user.ID)
	http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
}

// failedSignIn records a failure and flashes the lockout state.
func (h *AuthHandler) failedSignIn(w http.ResponseWriter, r *http.Request, email string) {
	slog.Warn("sign-in failed: invalid credentials", "email", email, "ip", clientIP(r))
	if h.loginProtection == nil {
		flashError(w, r, h.sessionManager, RouteSignIn, msgInvalidCredentials)
		return
	}

	if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
		flashError(w, r, h.sessionManager, RouteSignIn,
			fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(lockDuration)))
		return
	}
	if remaining := h.loginProtection.GetRemainingAttempts(email); remaining > 0 && remaining <= 3 {
		flashError(w, r, h.sessionManager, RouteSignIn,
			fmt.Sprintf("%s. %d attempts remaining.", msgInvalidCredentials, remaining))
		return
	}
	flashError(w, r, h.sessionManager, RouteSignIn, msgInvalidCredentials)
}

// SignInWithProvider handles the third-party sign-in button.
func (h *AuthHandler) SignInWithProvider(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.sessionManager, RouteSignIn) {
		return
	}
	provider := strings.TrimSpace(r.FormValue("provider"))

	user, err := h.gateway.SignInWithProvider(r.Context(), provider)
	if err != nil {
		if errors.Is(err, auth.ErrProviderUnavailable) {
			slog.Info("provider sign-in unavailable", "provider", provider)
		} else {
			slog.Error("provider sign-in failed", "error", err, "provider", provider)
		}
		flashError(w, r, h.sessionManager, RouteSignIn, msgProviderFailed)
		return
	}

	slog.Info("operator signed in", "user_id", user.ID, "provider", provider)
	http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
}

// SignUpForm renders the sign-up page.
func (h *AuthHandler) SignUpForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := SignUpFormData{
		FirstName: h.sessionManager.PopString(ctx, keyFormFirstName),
		LastName:  h.sessionManager.PopString(ctx, keyFormLastName),
		Email:     h.sessionManager.PopString(ctx, keyFormEmail),
	}
	h.render(w, r, "auth/signup", "Sign Up", data)
}

// SignUp handles the sign-up form submission.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.sessionManager, RouteSignUp) {
		return
	}
	ctx := r.Context()

	req := auth.SignUpRequest{
		FirstName:       strings.TrimSpace(r.FormValue("first_name")),
		LastName:        strings.TrimSpace(r.FormValue("last_name")),
		Email:           auth.NormalizeEmail(r.FormValue("email")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		AcceptTerms:     r.FormValue("accept_terms") == "on",
		CaptchaToken:    captcha.TokenFromRequest(r),
		RemoteIP:        clientIP(r),
	}
	h.sessionManager.Put(ctx, keyFormFirstName, req.FirstName)
	h.sessionManager.Put(ctx, keyFormLastName, req.LastName)
	h.sessionManager.Put(ctx, keyFormEmail, req.Email)

	if err := req.Validate(); err != nil {
		flashError(w, r, h.sessionManager, RouteSignUp, err.Error())
		return
	}

	user, err := h.gateway.SignUp(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			flashError(w, r, h.sessionManager, RouteSignUp, auth.ErrEmailTaken.Error())
		case errors.Is(err, auth.ErrCaptchaFailed):
			slog.Warn("sign-up captcha rejected", "error", err, "ip", req.RemoteIP)
			flashError(w, r, h.sessionManager, RouteSignUp, msgCaptchaFailed)
		default:
			var verr *auth.ValidationError
			if errors.As(err, &verr) {
				flashError(w, r, h.sessionManager, RouteSignUp, verr.Message)
				return
			}
			slog.Error("sign-up failed", "error", err, "email", req.Email)
			flashError(w, r, h.sessionManager, RouteSignUp, msgSignUpFailed)
		}
		return
	}

	h.sessionManager.Remove(ctx, keyFormFirstName)
	h.sessionManager.Remove(ctx, keyFormLastName)
	h.sessionManager.Remove(ctx, keyFormEmail)
	slog.Info("operator signed up", "user_id", user.ID)
	flashSuccess(w, r, h.sessionManager, RouteDashboard, "Welcome, "+user.DisplayName()+"!")
}

// SignOut ends the session.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if err := h.gateway.SignOut(r.Context()); err != nil {
		logAndInternalError(w, "sign-out failed", "error", err, "user_id", userID)
		return
	}
	slog.Info("operator signed out", "user_id", userID)
	flashAndRedirect(w, r, h.sessionManager, RouteSignIn, msgSignedOut, flashTypeInfo)
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	if err := h.renderer.Render(w, r, name, render.TemplateData{Title: title, Data: data}); err != nil {
		logAndInternalError(w, "failed to render auth page", "error", err, "template", name)
	}
}

// clientIP returns the request's remote host without the port. RealIP
// middleware has already applied any proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// formatDuration renders a lockout duration for people.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	switch {
	case d >= time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	case d >= time.Minute:
		m := int(d.Minutes())
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	default:
		s := int(d.Seconds())
		if s == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", s)
	}
}
