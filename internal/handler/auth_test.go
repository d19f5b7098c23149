// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/olegiv/iotcentral/internal/store"
)

func TestDashboard_RequiresSignIn(t *testing.T) {
	env := newTestEnv(t)

	assertRedirect(t, env.get(RouteDashboard), RouteSignIn)
	assertRedirect(t, env.get("/dashboard/kpis"), RouteSignIn)
}

func TestSignIn_Success(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	rec := env.get(RouteDashboard)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Demo Operator")
	assert.Contains(t, rec.Body.String(), `data-view="dashboard"`)
}

func TestSignInForm_Renders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(RouteSignIn)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/signin"`)
}

func TestSignIn_Validation(t *testing.T) {
	env := newTestEnv(t)

	assertRedirect(t, env.post(RouteSignIn, url.Values{"email": {""}, "password": {"x"}}), RouteSignIn)
	assert.Contains(t, env.get(RouteSignIn).Body.String(), "Email is required")

	assertRedirect(t, env.post(RouteSignIn, url.Values{"email": {"a@example.com"}}), RouteSignIn)
	assert.Contains(t, env.get(RouteSignIn).Body.String(), "Password is required")
}

func TestSignIn_InvalidCredentialsKeepsEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post(RouteSignIn, url.Values{
		"email":    {store.DemoEmail},
		"password": {"wrong"},
	})
	assertRedirect(t, rec, RouteSignIn)

	body := env.get(RouteSignIn).Body.String()
	assert.Contains(t, body, msgInvalidCredentials)
	assert.Contains(t, body, `value="`+store.DemoEmail+`"`)

	assertRedirect(t, env.get(RouteDashboard), RouteSignIn)
}

func TestSignIn_LocksAccountAfterRepeatedFailures(t *testing.T) {
	env := newTestEnv(t)

	for range 5 {
		env.post(RouteSignIn, url.Values{"email": {store.DemoEmail}, "password": {"wrong"}})
		env.get(RouteSignIn)
	}

	// The right password is refused while locked.
	assertRedirect(t, env.post(RouteSignIn, url.Values{
		"email":    {store.DemoEmail},
		"password": {store.DemoPassword},
	}), RouteSignIn)
	assert.Contains(t, env.get(RouteSignIn).Body.String(), "Too many failed attempts")
	assertRedirect(t, env.get(RouteDashboard), RouteSignIn)
}

func TestSignInWithProvider_Unavailable(t *testing.T) {
	env := newTestEnv(t)

	assertRedirect(t, env.post(RouteSignInProvider, url.Values{"provider": {"google"}}), RouteSignIn)
	assert.Contains(t, env.get(RouteSignIn).Body.String(), msgProviderFailed)
}

func TestSignUp_ValidationMessages(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{
			name: "password mismatch",
			form: url.Values{"email": {"ada@example.com"}, "password": {"secret1"}, "confirm_password": {"secret2"}, "accept_terms": {"on"}},
			want: "Passwords do not match!",
		},
		{
			name: "terms not accepted",
			form: url.Values{"email": {"ada@example.com"}, "password": {"secret1"}, "confirm_password": {"secret1"}},
			want: "Please agree to the terms and conditions",
		},
		{
			name: "email already taken",
			form: url.Values{"email": {store.DemoEmail}, "password": {"secret1"}, "confirm_password": {"secret1"}, "accept_terms": {"on"}},
			want: "an account with this email already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.form.Set("first_name", "Ada")

			assertRedirect(t, env.post(RouteSignUp, tt.form), RouteSignUp)

			body := env.get(RouteSignUp).Body.String()
			assert.Contains(t, body, tt.want)
			assert.Contains(t, body, `value="Ada"`)
		})
	}
}

func TestSignUp_CreatesAccountAndSignsIn(t *testing.T) {
	env := newTestEnv(t)

	rec := env.post(RouteSignUp, url.Values{
		"first_name":       {"Ada"},
		"last_name":        {"Lovelace"},
		"email":            {"Ada@Example.com"},
		"password":         {"analytical"},
		"confirm_password": {"analytical"},
		"accept_terms":     {"on"},
	})
	assertRedirect(t, rec, RouteDashboard)

	body := env.get(RouteDashboard).Body.String()
	assert.Contains(t, body, "Welcome, Ada Lovelace!")
	assert.Contains(t, body, "ada@example.com")
}

func TestSignOut(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	assertRedirect(t, env.post(RouteSignOut, nil), RouteSignIn)
	assert.Contains(t, env.get(RouteSignIn).Body.String(), msgSignedOut)
	assertRedirect(t, env.get(RouteDashboard), RouteSignIn)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{time.Second, "1 second"},
		{42 * time.Second, "42 seconds"},
		{time.Minute, "1 minute"},
		{15*time.Minute + 20*time.Second, "15 minutes"},
		{time.Hour, "1 hour"},
		{5 * time.Hour, "5 hours"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d), tt.d.String())
	}
}

func TestClientIP(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:52100"
	assert.Equal(t, "203.0.113.9", clientIP(r))

	r.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", clientIP(r))
}
