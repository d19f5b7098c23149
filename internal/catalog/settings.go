// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

// SettingsSection is one tab of the settings view.
type SettingsSection struct {
	ID          string
	Title       string
	Icon        string
	Description string
}

// Integration is a third-party connection listed under settings.
type Integration struct {
	Name      string
	Connected bool
}

// Option is a selectable value.
type Option struct {
	Value string
	Label string
}

// SettingsSections returns the settings tabs in display order.
func SettingsSections() []SettingsSection {
	return []SettingsSection{
		{ID: "general", Title: "General", Icon: "settings", Description: "Basic application settings"},
		{ID: "notifications", Title: "Notifications", Icon: "bell", Description: "Alert and notification preferences"},
		{ID: "security", Title: "Security", Icon: "shield", Description: "Account and data protection"},
		{ID: "appearance", Title: "Appearance", Icon: "palette", Description: "Theme and display options"},
		{ID: "integrations", Title: "Integrations", Icon: "globe", Description: "Third-party connections"},
		{ID: "data", Title: "Data & Storage", Icon: "database", Description: "Data management settings"},
	}
}

// ValidSettingsSection reports whether id names a settings tab.
func ValidSettingsSection(id string) bool {
	for _, s := range SettingsSections() {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Integrations returns the configured integrations.
func Integrations() []Integration {
	return []Integration{
		{Name: "Slack", Connected: true},
		{Name: "Microsoft Teams", Connected: false},
		{Name: "PagerDuty", Connected: true},
		{Name: "AWS CloudWatch", Connected: true},
		{Name: "Datadog", Connected: false},
	}
}

// Themes returns the appearance choices.
func Themes() []Option {
	return []Option{{"light", "Light"}, {"dark", "Dark"}, {"system", "System"}}
}

// SessionTimeouts returns the selectable idle timeouts in minutes.
func SessionTimeouts() []Option {
	return []Option{{"15", "15 minutes"}, {"30", "30 minutes"}, {"60", "1 hour"}, {"240", "4 hours"}}
}

// RetentionPeriods returns the selectable data retention windows in days.
func RetentionPeriods() []Option {
	return []Option{{"30", "30 days"}, {"90", "90 days"}, {"180", "180 days"}, {"365", "1 year"}}
}

// ValidOption reports whether v is one of opts.
func ValidOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
