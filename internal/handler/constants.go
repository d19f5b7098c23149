// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"

	// RouteSignIn is the sign-in form.
	RouteSignIn = "/signin"
	// RouteSignInProvider starts a third-party sign-in.
	RouteSignInProvider = "/signin/provider"
	// RouteSignUp is the sign-up form.
	RouteSignUp = "/signup"
	// RouteSignOut ends the session.
	RouteSignOut = "/signout"

	// RouteDashboard renders the selected view.
	RouteDashboard = "/dashboard"
	// RouteDashboardView renders a view addressed by path.
	RouteDashboardView = "/dashboard/{view}"
	// RouteSelectView selects a view from the sidebar.
	RouteSelectView = "/dashboard/view/{id}"
	// RouteSidebar toggles the sidebar.
	RouteSidebar = "/dashboard/sidebar"
	// RouteSettings saves a settings section.
	RouteSettings = "/dashboard/settings"
	// RouteChat sends a chat message.
	RouteChat = "/dashboard/chat"
	// RouteChatReset clears the conversation.
	RouteChatReset = "/dashboard/chat/reset"
	// RouteLive is the live session WebSocket.
	RouteLive = "/dashboard/live"
	// RouteEvents lists persisted system events.
	RouteEvents = "/dashboard/events"

	// RouteHealth is the health report.
	RouteHealth = "/health"
	// RouteHealthLive is the liveness probe.
	RouteHealthLive = "/health/live"
	// RouteHealthReady is the readiness probe.
	RouteHealthReady = "/health/ready"
	// RouteMetrics exposes Prometheus metrics.
	RouteMetrics = "/metrics"
)

// Query parameters.
const (
	// QueryFragment asks for the view body only.
	QueryFragment = "fragment"
	// QuerySection selects a settings tab.
	QuerySection = "section"
	// QueryPath is the page path a live session opens on.
	QueryPath = "path"
)

// Utility constants used by main.go.
const (
	// LogCacheInit is the log message for transcript cache initialization.
	LogCacheInit = "transcript cache initialized"
	// HeaderContentType is the Content-Type HTTP header name.
	HeaderContentType = "Content-Type"
)

// Flash message types.
const (
	flashTypeError   = "error"
	flashTypeSuccess = "success"
	flashTypeInfo    = "info"
)
