// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

// Alert is a predictive maintenance alert.
type Alert struct {
	ID            string
	Device        string
	Severity      string // critical, warning, info
	Message       string
	Prediction    string
	Probability   int
	TimeToFailure string
	CreatedAt     string
}

// ScheduledTask is a planned maintenance job.
type ScheduledTask struct {
	ID       string
	Title    string
	Device   string
	Date     string
	Status   string // pending, completed, overdue
	Priority string // high, medium, low
}

// SummaryCard is a labelled headline value.
type SummaryCard struct {
	Label string
	Value string
	Icon  string
}

// Alerts returns the open predictive alerts.
func Alerts() []Alert {
	return []Alert{
		{ID: "a1", Device: "Sensor Hub Beta", Severity: "critical", Message: "Bearing wear detected - replacement required", Prediction: "Component failure predicted", Probability: 94, TimeToFailure: "~72 hours", CreatedAt: "2 hours ago"},
		{ID: "a2", Device: "Edge Node Gamma", Severity: "warning", Message: "Fan speed degradation noticed", Prediction: "Cooling efficiency dropping", Probability: 76, TimeToFailure: "~2 weeks", CreatedAt: "5 hours ago"},
		{ID: "a3", Device: "Gateway Alpha", Severity: "info", Message: "Firmware update available", Prediction: "Security patch recommended", Probability: 100, TimeToFailure: "N/A", CreatedAt: "1 day ago"},
	}
}

// ScheduledTasks returns upcoming and recent maintenance tasks.
func ScheduledTasks() []ScheduledTask {
	return []ScheduledTask{
		{ID: "t1", Title: "Replace Sensor Hub Beta bearing", Device: "Sensor Hub Beta", Date: "Dec 24, 2024", Status: "pending", Priority: "high"},
		{ID: "t2", Title: "Calibrate temperature sensors", Device: "All Sensors", Date: "Dec 26, 2024", Status: "pending", Priority: "medium"},
		{ID: "t3", Title: "Network security audit", Device: "Gateway Alpha", Date: "Dec 28, 2024", Status: "pending", Priority: "high"},
		{ID: "t4", Title: "Battery replacement", Device: "Edge Node Gamma", Date: "Dec 20, 2024", Status: "overdue", Priority: "high"},
		{ID: "t5", Title: "Firmware update", Device: "Router Delta", Date: "Dec 18, 2024", Status: "completed", Priority: "low"},
	}
}

// MaintenanceCards returns the maintenance headline cards.
func MaintenanceCards() []SummaryCard {
	return []SummaryCard{
		{Label: "Active Alerts", Value: "3", Icon: "alert-triangle"},
		{Label: "Scheduled Tasks", Value: "12", Icon: "calendar"},
		{Label: "Prediction Accuracy", Value: "87%", Icon: "trending-up"},
		{Label: "Avg. Uptime", Value: "99.2%", Icon: "shield"},
	}
}

// TaskBreakdown returns task counts by outcome.
func TaskBreakdown() []LabeledValue {
	return []LabeledValue{{"Completed", 45}, {"Pending", 12}, {"Overdue", 3}}
}

// PredictionAccuracy is the model accuracy shown on the radial chart.
const PredictionAccuracy = 87
