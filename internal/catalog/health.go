// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

// Health states.
const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// DeviceHealth is one row of the device health monitor.
type DeviceHealth struct {
	ID          string
	Device      string
	Status      string
	Temperature int
	Battery     int
	Uptime      string
	LastCheck   string
	Trend       string // up, down, stable
	History     []int
}

// LabeledValue is a named chart sample.
type LabeledValue struct {
	Label string
	Value float64
}

// HealthSummary counts devices per health state.
type HealthSummary struct {
	Healthy  int
	Warning  int
	Critical int
}

// HealthDevices returns the monitored devices.
func HealthDevices() []DeviceHealth {
	return []DeviceHealth{
		{ID: "d1", Device: "Gateway Alpha", Status: HealthHealthy, Temperature: 42, Battery: 98, Uptime: "99.9%", LastCheck: "2 min ago", Trend: "up", History: []int{85, 88, 87, 90, 92, 94, 96}},
		{ID: "d2", Device: "Sensor Hub Beta", Status: HealthHealthy, Temperature: 38, Battery: 87, Uptime: "99.7%", LastCheck: "1 min ago", Trend: "stable", History: []int{90, 91, 89, 92, 90, 91, 90}},
		{ID: "d3", Device: "Edge Node Gamma", Status: HealthWarning, Temperature: 68, Battery: 45, Uptime: "98.2%", LastCheck: "5 min ago", Trend: "down", History: []int{95, 92, 88, 85, 80, 76, 72}},
		{ID: "d4", Device: "Router Delta", Status: HealthHealthy, Temperature: 35, Battery: 100, Uptime: "100%", LastCheck: "30 sec ago", Trend: "up", History: []int{88, 90, 91, 93, 95, 97, 99}},
		{ID: "d5", Device: "Sensor Epsilon", Status: HealthCritical, Temperature: 78, Battery: 12, Uptime: "85.4%", LastCheck: "15 min ago", Trend: "down", History: []int{80, 72, 65, 55, 42, 30, 20}},
		{ID: "d6", Device: "Gateway Zeta", Status: HealthHealthy, Temperature: 40, Battery: 92, Uptime: "99.5%", LastCheck: "1 min ago", Trend: "stable", History: []int{91, 92, 91, 92, 91, 92, 92}},
	}
}

// SummarizeHealth counts devices per state.
func SummarizeHealth(devices []DeviceHealth) HealthSummary {
	var s HealthSummary
	for _, d := range devices {
		switch d.Status {
		case HealthHealthy:
			s.Healthy++
		case HealthWarning:
			s.Warning++
		case HealthCritical:
			s.Critical++
		}
	}
	return s
}

// WeeklyHealth returns the fleet health score per weekday.
func WeeklyHealth() []LabeledValue {
	return []LabeledValue{
		{"Mon", 95}, {"Tue", 92}, {"Wed", 88}, {"Thu", 94}, {"Fri", 97}, {"Sat", 99}, {"Sun", 96},
	}
}
