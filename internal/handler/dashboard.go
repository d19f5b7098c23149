// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/iotcentral/internal/catalog"
	"github.com/olegiv/iotcentral/internal/chat"
	"github.com/olegiv/iotcentral/internal/middleware"
	"github.com/olegiv/iotcentral/internal/render"
	"github.com/olegiv/iotcentral/internal/session"
	"github.com/olegiv/iotcentral/internal/telemetry"
	"github.com/olegiv/iotcentral/internal/topology"
	"github.com/olegiv/iotcentral/internal/view"
)

// DashboardHandler renders the dashboard views and stores the per-session
// view, sidebar and settings state.
type DashboardHandler struct {
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	chat           *chat.Service
	gen            *telemetry.Generator
}

// NewDashboardHandler creates a new DashboardHandler. A nil chat service
// renders an empty transcript.
func NewDashboardHandler(renderer *render.Renderer, sm *scs.SessionManager, chatService *chat.Service, gen *telemetry.Generator) *DashboardHandler {
	return &DashboardHandler{
		renderer:       renderer,
		sessionManager: sm,
		chat:           chatService,
		gen:            gen,
	}
}

// OverviewData is the dashboard view data.
type OverviewData struct {
	Stats        []catalog.StatCard
	Throughput   []catalog.ThroughputPoint
	Feed         []telemetry.Event
	FeedCapacity int
	Gauges       []catalog.Gauge
	Fleet        catalog.FleetSummary
	Devices      []catalog.Device
	Team         []catalog.TeamMember
}

// ChatData is the chat view data.
type ChatData struct {
	Messages []chat.Message
}

// Link is a topology connection resolved to map coordinates.
type Link struct {
	X1, Y1, X2, Y2 int
}

// LiveIoTData is the live infrastructure view data.
type LiveIoTData struct {
	Stats          []topology.Stat
	Links          []Link
	Nodes          []topology.Node
	StreamCapacity int
}

// DeviceHealthData is the device health view data.
type DeviceHealthData struct {
	Summary catalog.HealthSummary
	Weekly  []catalog.LabeledValue
	Devices []catalog.DeviceHealth
}

// MaintenanceData is the predictive maintenance view data.
type MaintenanceData struct {
	Cards     []catalog.SummaryCard
	Alerts    []catalog.Alert
	Accuracy  int
	Breakdown []catalog.LabeledValue
	Tasks     []catalog.ScheduledTask
}

// KPIData is the infrastructure KPI view data.
type KPIData struct {
	Cards       []catalog.KPICard
	Performance []catalog.PerformancePoint
	Radar       []catalog.LabeledValue
	Gauges      []catalog.Gauge
	Categories  []catalog.KPICategory
}

// ServersData is the server management view data.
type ServersData struct {
	Counts    catalog.ServerCounts
	Servers   []catalog.Server
	Actions   []string
	Resources []catalog.Resource
}

// SettingsData is the settings view data.
type SettingsData struct {
	Section        string
	Sections       []catalog.SettingsSection
	Timeouts       []catalog.Option
	Retention      []catalog.Option
	Themes         []catalog.Option
	Integrations   []catalog.Integration
	SessionTimeout string
	DataRetention  string
}

// Show handles GET /dashboard and GET /dashboard/{view}. The bare path
// renders the session's current view; a view path selects that view first.
// The chat route forces the chat view. With ?fragment=1 only the view body
// is rendered.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sel := view.NewSelection()
	sel.Restore(view.ID(h.sessionManager.GetString(ctx, session.KeyView)))

	if param := chi.URLParam(r, "view"); param != "" {
		id := view.ID(param)
		if !view.Valid(id) {
			http.NotFound(w, r)
			return
		}
		if !sel.ObservePath(r.URL.Path) {
			_ = sel.Select(id)
		}
	}

	current := sel.Current()
	h.sessionManager.Put(ctx, session.KeyView, string(current))

	data, err := h.viewData(ctx, r, current)
	if err != nil {
		logAndInternalError(w, "failed to load view data", "error", err, "view", current)
		return
	}

	if err := h.renderer.Render(w, r, "views/"+string(current), render.TemplateData{
		Title:            view.Title(current),
		Data:             data,
		User:             middleware.GetUser(r),
		View:             current,
		SidebarCollapsed: session.SidebarCollapsed(ctx, h.sessionManager),
		Preferences:      session.GetPreferences(ctx, h.sessionManager),
		Fragment:         r.URL.Query().Get(QueryFragment) == "1",
	}); err != nil {
		logAndInternalError(w, "failed to render view", "error", err, "view", current)
	}
}

func (h *DashboardHandler) viewData(ctx context.Context, r *http.Request, id view.ID) (any, error) {
	switch id {
	case view.Chat:
		var msgs []chat.Message
		if h.chat != nil {
			var err error
			if msgs, err = h.chat.Transcript(ctx, h.sessionManager.Token(ctx)); err != nil {
				return nil, err
			}
		}
		return ChatData{Messages: msgs}, nil
	case view.LiveIoT:
		return LiveIoTData{
			Stats:          topology.NetworkStats(),
			Links:          resolveLinks(),
			Nodes:          topology.Nodes(),
			StreamCapacity: telemetry.StreamCapacity,
		}, nil
	case view.DeviceHealth:
		devices := catalog.HealthDevices()
		return DeviceHealthData{
			Summary: catalog.SummarizeHealth(devices),
			Weekly:  catalog.WeeklyHealth(),
			Devices: devices,
		}, nil
	case view.Maintenance:
		return MaintenanceData{
			Cards:     catalog.MaintenanceCards(),
			Alerts:    catalog.Alerts(),
			Accuracy:  catalog.PredictionAccuracy,
			Breakdown: catalog.TaskBreakdown(),
			Tasks:     catalog.ScheduledTasks(),
		}, nil
	case view.KPIs:
		return KPIData{
			Cards:       catalog.KPICards(),
			Performance: catalog.Performance(),
			Radar:       catalog.Radar(),
			Gauges:      catalog.KPIGauges(),
			Categories:  catalog.KPICategories(),
		}, nil
	case view.Servers:
		servers := catalog.Servers()
		return ServersData{
			Counts:    catalog.CountServers(servers),
			Servers:   servers,
			Actions:   []string{catalog.ActionRestart, catalog.ActionPower, catalog.ActionSettings},
			Resources: catalog.Resources(),
		}, nil
	case view.Settings:
		return h.settingsData(ctx, r.URL.Query().Get(QuerySection)), nil
	default:
		return h.overviewData(), nil
	}
}

// overviewData seeds the feed the same way a live session does on mount, so
// the page is complete before the socket connects.
func (h *DashboardHandler) overviewData() OverviewData {
	feedCfg := telemetry.DefaultFeedConfig()
	feed := telemetry.NewLog[telemetry.Event](feedCfg.Capacity)
	if h.gen != nil {
		feed.Seed(feedCfg.SeedCount, func(i int) telemetry.Event { return h.gen.Generate(int64(i)) })
	}
	return OverviewData{
		Stats:        catalog.OverviewStats(),
		Throughput:   catalog.Throughput(),
		Feed:         feed.Snapshot(),
		FeedCapacity: feedCfg.Capacity,
		Gauges:       catalog.OverviewGauges(),
		Fleet:        catalog.Fleet(),
		Devices:      catalog.Devices(),
		Team:         catalog.Team(),
	}
}

func (h *DashboardHandler) settingsData(ctx context.Context, section string) SettingsData {
	if !catalog.ValidSettingsSection(section) {
		section = catalog.SettingsSections()[0].ID
	}
	prefs := session.GetPreferences(ctx, h.sessionManager)
	return SettingsData{
		Section:        section,
		Sections:       catalog.SettingsSections(),
		Timeouts:       catalog.SessionTimeouts(),
		Retention:      catalog.RetentionPeriods(),
		Themes:         catalog.Themes(),
		Integrations:   catalog.Integrations(),
		SessionTimeout: strconv.Itoa(prefs.SessionTimeout),
		DataRetention:  strconv.Itoa(prefs.DataRetention),
	}
}

func resolveLinks() []Link {
	conns := topology.Connections()
	links := make([]Link, 0, len(conns))
	for _, c := range conns {
		from, ok1 := topology.FindNode(c.From)
		to, ok2 := topology.FindNode(c.To)
		if !ok1 || !ok2 {
			continue
		}
		links = append(links, Link{X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y})
	}
	return links
}

// Select handles POST /dashboard/view/{id}: the sidebar selection.
func (h *DashboardHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := view.ID(chi.URLParam(r, "id"))
	if !view.Valid(id) {
		flashError(w, r, h.sessionManager, RouteDashboard, "Unknown view")
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyView, string(id))
	http.Redirect(w, r, view.Path(id), http.StatusSeeOther)
}

// ToggleSidebar handles POST /dashboard/sidebar.
func (h *DashboardHandler) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	session.ToggleSidebar(r.Context(), h.sessionManager)
	http.Redirect(w, r, h.currentPath(r), http.StatusSeeOther)
}

// UpdateSettings handles POST /dashboard/settings. Only the fields of the
// submitted section change, so an unchecked box elsewhere is not cleared.
func (h *DashboardHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	back := view.Path(view.Settings)
	if !parseFormOrRedirect(w, r, h.sessionManager, back) {
		return
	}
	ctx := r.Context()

	section := r.FormValue("section")
	if !catalog.ValidSettingsSection(section) {
		flashError(w, r, h.sessionManager, back, "Unknown settings section")
		return
	}
	back += "?" + QuerySection + "=" + section

	prefs := session.GetPreferences(ctx, h.sessionManager)
	switch section {
	case "notifications":
		prefs.EmailNotifications = r.FormValue("email_notifications") == "on"
		prefs.PushNotifications = r.FormValue("push_notifications") == "on"
	case "security":
		v := r.FormValue("session_timeout")
		if !catalog.ValidOption(catalog.SessionTimeouts(), v) {
			flashError(w, r, h.sessionManager, back, "Invalid session timeout")
			return
		}
		prefs.SessionTimeout, _ = strconv.Atoi(v)
	case "appearance":
		theme := r.FormValue("theme")
		if !catalog.ValidOption(catalog.Themes(), theme) {
			flashError(w, r, h.sessionManager, back, "Invalid theme")
			return
		}
		prefs.Theme = theme
		prefs.CompactMode = r.FormValue("compact_mode") == "on"
		prefs.Animations = r.FormValue("animations") == "on"
	case "data":
		v := r.FormValue("data_retention")
		if !catalog.ValidOption(catalog.RetentionPeriods(), v) {
			flashError(w, r, h.sessionManager, back, "Invalid retention period")
			return
		}
		prefs.DataRetention, _ = strconv.Atoi(v)
	}

	session.PutPreferences(ctx, h.sessionManager, prefs)
	flashSuccess(w, r, h.sessionManager, back, "Settings saved")
}

func (h *DashboardHandler) currentPath(r *http.Request) string {
	return view.Path(view.ID(h.sessionManager.GetString(r.Context(), session.KeyView)))
}
