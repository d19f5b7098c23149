// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package topology describes the static IoT network map and simulates the
// activity pulses drawn on it.
package topology

// Kind is the role of a node in the network.
type Kind string

// Node kinds.
const (
	KindGateway Kind = "gateway"
	KindSensor  Kind = "sensor"
	KindRouter  Kind = "router"
	KindEdge    Kind = "edge"
)

// Status is the operational state of a node.
type Status string

// Node statuses.
const (
	StatusActive  Status = "active"
	StatusIdle    Status = "idle"
	StatusWarning Status = "warning"
)

// Node is a device on the network map. X and Y are percentages of the map area.
type Node struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   Kind   `json:"type"`
	Status Status `json:"status"`
	Load   int    `json:"load"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// Connection is an undirected link between two nodes.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Stat is one network summary card.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Trend string `json:"trend"`
}

var nodes = []Node{
	{ID: "gw1", Name: "Gateway Alpha", Kind: KindGateway, Status: StatusActive, Load: 89, X: 50, Y: 30},
	{ID: "s1", Name: "Temp Sensor 01", Kind: KindSensor, Status: StatusActive, Load: 45, X: 20, Y: 60},
	{ID: "s2", Name: "Pressure Sensor", Kind: KindSensor, Status: StatusIdle, Load: 12, X: 35, Y: 80},
	{ID: "r1", Name: "Router Hub", Kind: KindRouter, Status: StatusActive, Load: 76, X: 65, Y: 55},
	{ID: "e1", Name: "Edge Node 01", Kind: KindEdge, Status: StatusWarning, Load: 92, X: 80, Y: 35},
	{ID: "s3", Name: "Motion Sensor", Kind: KindSensor, Status: StatusActive, Load: 34, X: 85, Y: 70},
}

var connections = []Connection{
	{From: "gw1", To: "s1"},
	{From: "gw1", To: "s2"},
	{From: "gw1", To: "r1"},
	{From: "r1", To: "e1"},
	{From: "r1", To: "s3"},
	{From: "e1", To: "s3"},
}

// Nodes returns a copy of the node catalog.
func Nodes() []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return out
}

// Connections returns a copy of the link catalog.
func Connections() []Connection {
	out := make([]Connection, len(connections))
	copy(out, connections)
	return out
}

// FindNode looks up a node by id.
func FindNode(id string) (Node, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NetworkStats returns the fixed network summary cards.
func NetworkStats() []Stat {
	return []Stat{
		{Label: "Active Connections", Value: "847", Trend: "+12"},
		{Label: "Data Rate", Value: "2.4 GB/s", Trend: "+8%"},
		{Label: "Signal Strength", Value: "94%", Trend: "+2%"},
		{Label: "Packet Loss", Value: "0.02%", Trend: "-0.5%"},
	}
}
