// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import "strings"

// KPICard is a headline KPI. Good reports whether the change is favourable.
type KPICard struct {
	Title  string
	Value  string
	Change string
	Good   bool
	Icon   string
}

// PerformancePoint is one month of the performance chart.
type PerformancePoint struct {
	Month      string
	Throughput int
	Latency    int
	Uptime     float64
}

// KPI is a measured value against its target.
type KPI struct {
	Name   string
	Value  float64
	Target float64
}

// KPICategory groups KPIs.
type KPICategory struct {
	Category string
	KPIs     []KPI
}

// LowerIsBetter reports whether the KPI improves as it decreases.
func (k KPI) LowerIsBetter() bool {
	return strings.Contains(k.Name, "Loss") || strings.Contains(k.Name, "Jitter") || strings.Contains(k.Name, "Queue")
}

// OnTarget reports whether the KPI meets its goal. Lower-is-better KPIs must
// not exceed the target; others must reach 80% of it.
func (k KPI) OnTarget() bool {
	if k.LowerIsBetter() {
		return k.Value <= k.Target
	}
	return k.Value >= k.Target*0.8
}

// Percent is Value relative to Target, capped at 100.
func (k KPI) Percent() float64 {
	if k.Target == 0 {
		return 0
	}
	return min(k.Value/k.Target*100, 100)
}

// KPICards returns the headline KPIs.
func KPICards() []KPICard {
	return []KPICard{
		{Title: "System Uptime", Value: "99.97%", Change: "+0.12%", Good: true, Icon: "activity"},
		{Title: "Avg Response Time", Value: "12ms", Change: "-3ms", Good: true, Icon: "clock"},
		{Title: "Data Throughput", Value: "1.2 TB/h", Change: "+15%", Good: true, Icon: "hard-drive"},
		{Title: "Active Connections", Value: "2,847", Change: "+124", Good: true, Icon: "wifi"},
		{Title: "Error Rate", Value: "0.02%", Change: "-0.01%", Good: true, Icon: "zap"},
		{Title: "Server Load", Value: "67%", Change: "+5%", Good: false, Icon: "server"},
	}
}

// Performance returns six months of performance history.
func Performance() []PerformancePoint {
	return []PerformancePoint{
		{"Jan", 820, 45, 99.2},
		{"Feb", 890, 42, 99.5},
		{"Mar", 920, 38, 99.7},
		{"Apr", 880, 41, 99.4},
		{"May", 950, 35, 99.8},
		{"Jun", 1020, 32, 99.9},
	}
}

// Radar returns the quality radar axes, each out of 100.
func Radar() []LabeledValue {
	return []LabeledValue{
		{"Uptime", 98}, {"Speed", 86}, {"Security", 92},
		{"Efficiency", 78}, {"Reliability", 95}, {"Scalability", 84},
	}
}

// KPIGauges returns the dials on the KPI view.
func KPIGauges() []Gauge {
	return []Gauge{
		{Title: "Network Health", Value: 92, Max: 100, Unit: "%", Color: "primary"},
		{Title: "System Load", Value: 67, Max: 100, Unit: "%", Color: "accent"},
		{Title: "Storage Used", Value: 78, Max: 100, Unit: "%", Color: "secondary"},
		{Title: "Memory Usage", Value: 54, Max: 100, Unit: "%", Color: "primary"},
	}
}

// KPICategories returns KPIs grouped by area.
func KPICategories() []KPICategory {
	return []KPICategory{
		{Category: "Network", KPIs: []KPI{
			{"Bandwidth Utilization", 78, 85},
			{"Packet Loss Rate", 0.1, 0.5},
			{"Jitter", 2.3, 5},
		}},
		{Category: "Compute", KPIs: []KPI{
			{"CPU Utilization", 67, 80},
			{"Memory Usage", 54, 75},
			{"Disk I/O", 42, 70},
		}},
		{Category: "Application", KPIs: []KPI{
			{"Request Rate", 1250, 2000},
			{"Success Rate", 99.8, 99.5},
			{"Queue Length", 12, 50},
		}},
	}
}
