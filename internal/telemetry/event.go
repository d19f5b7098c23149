// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package telemetry produces the synthetic device activity shown on the
// dashboard: the live event feed and the inbound/outbound data stream.
package telemetry

import "time"

// Category classifies an event for display.
type Category string

// Event categories.
const (
	CategoryInfo    Category = "info"
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
	CategoryError   Category = "error"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryInfo, CategorySuccess, CategoryWarning, CategoryError}

// Devices is the catalog of device names events are attributed to.
var Devices = []string{"Sensor-A1", "Gateway-B2", "Node-C3", "Hub-D4", "Router-E5"}

// Messages is the catalog of event messages.
var Messages = []string{
	"Temperature reading: 23.5°C",
	"Connection established",
	"Firmware update available",
	"Battery level: 85%",
	"Data packet received",
	"Heartbeat signal OK",
	"Calibration complete",
	"Network latency: 12ms",
	"Memory usage: 64%",
	"CPU load: 42%",
}

// TimestampLayout formats the wall-clock time of day attached to an event.
const TimestampLayout = "15:04:05"

// Event is a single synthetic device log entry.
type Event struct {
	ID        int64     `json:"id"`
	Timestamp string    `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
	Category  Category  `json:"type"`
	Message   string    `json:"message"`
	Device    string    `json:"device"`
}

// DataPoint is one sample of the live traffic stream.
type DataPoint struct {
	Time     string `json:"time"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// Stream sample bounds. Inbound is in [InboundMin, InboundMin+InboundSpan).
const (
	InboundMin   = 200
	InboundSpan  = 500
	OutboundMin  = 150
	OutboundSpan = 400
	PointLayout  = "15:04"
)
