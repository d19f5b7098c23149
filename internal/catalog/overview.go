// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog holds the static fleet data shown on the dashboard views
// and the transient server action tracker.
package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatNumber renders v with thousands separators and at most two decimals.
func FormatNumber(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// StatCard is a headline metric with a sparkline.
type StatCard struct {
	Title     string
	Value     string
	Change    string
	Positive  bool
	Icon      string
	Sparkline []int
}

// Gauge is a bounded percentage dial.
type Gauge struct {
	Title string
	Value int
	Max   int
	Unit  string
	Color string
}

// Percent returns Value as a share of Max in the range 0-100.
func (g Gauge) Percent() int {
	if g.Max <= 0 {
		return 0
	}
	p := g.Value * 100 / g.Max
	return min(max(p, 0), 100)
}

// Device is a fleet member on the overview.
type Device struct {
	Name   string
	Status string // online, warning, offline
	CPU    int
	Memory int
	Image  string
}

// TeamMember is an operator shown in the team panel.
type TeamMember struct {
	Name   string
	Role   string
	Image  string
	Status string // online, away, offline
}

// ThroughputPoint is one sample of the overview traffic chart.
type ThroughputPoint struct {
	Label    string
	Inbound  int
	Outbound int
}

// FleetSummary counts devices by state across the whole fleet.
type FleetSummary struct {
	Online  int
	Warning int
}

// OverviewStats returns the four overview headline cards.
func OverviewStats() []StatCard {
	return []StatCard{
		{Title: "Active Devices", Value: "2,847", Change: "+12.5%", Positive: true, Icon: "server", Sparkline: []int{40, 60, 45, 80, 55, 90, 75}},
		{Title: "Data Throughput", Value: "1.2 TB", Change: "+8.2%", Positive: true, Icon: "hard-drive", Sparkline: []int{30, 50, 70, 45, 85, 60, 80}},
		{Title: "Network Latency", Value: "12ms", Change: "-3.1%", Positive: true, Icon: "wifi", Sparkline: []int{80, 60, 70, 50, 40, 45, 35}},
		{Title: "System Uptime", Value: "99.97%", Change: "+0.02%", Positive: true, Icon: "activity", Sparkline: []int{95, 98, 97, 99, 98, 99, 100}},
	}
}

// OverviewGauges returns the resource dials on the overview.
func OverviewGauges() []Gauge {
	return []Gauge{
		{Title: "CPU Usage", Value: 67, Max: 100, Unit: "%", Color: "primary"},
		{Title: "Memory", Value: 54, Max: 100, Unit: "%", Color: "accent"},
		{Title: "Storage", Value: 78, Max: 100, Unit: "%", Color: "secondary"},
		{Title: "Bandwidth", Value: 42, Max: 100, Unit: "%", Color: "primary"},
	}
}

// Devices returns the featured fleet devices.
func Devices() []Device {
	return []Device{
		{Name: "Edge Gateway Alpha", Status: "online", CPU: 45, Memory: 62, Image: "https://images.unsplash.com/photo-1558494949-ef010cbdcc31?w=400&h=300&fit=crop"},
		{Name: "Sensor Hub Beta", Status: "online", CPU: 78, Memory: 54, Image: "https://images.unsplash.com/photo-1597872200969-2b65d56bd16b?w=400&h=300&fit=crop"},
		{Name: "Data Node Gamma", Status: "warning", CPU: 92, Memory: 88, Image: "https://images.unsplash.com/photo-1573164713714-d95e436ab8d6?w=400&h=300&fit=crop"},
		{Name: "Router Delta", Status: "online", CPU: 23, Memory: 41, Image: "https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=400&h=300&fit=crop"},
	}
}

// Fleet returns device counts for the fleet header.
func Fleet() FleetSummary {
	return FleetSummary{Online: 24, Warning: 3}
}

// Team returns the operations team.
func Team() []TeamMember {
	return []TeamMember{
		{Name: "Sarah Chen", Role: "System Architect", Image: "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=100&h=100&fit=crop", Status: "online"},
		{Name: "Marcus Johnson", Role: "Network Engineer", Image: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=100&h=100&fit=crop", Status: "online"},
		{Name: "Elena Rodriguez", Role: "DevOps Lead", Image: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=100&h=100&fit=crop", Status: "away"},
		{Name: "David Kim", Role: "Security Analyst", Image: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=100&h=100&fit=crop", Status: "offline"},
	}
}

// Throughput returns the daily traffic profile.
func Throughput() []ThroughputPoint {
	return []ThroughputPoint{
		{"00:00", 2400, 1800},
		{"04:00", 1398, 2200},
		{"08:00", 9800, 6800},
		{"12:00", 3908, 4800},
		{"16:00", 4800, 3800},
		{"20:00", 3800, 4300},
		{"24:00", 4300, 2100},
	}
}
