// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package live runs one dashboard session per open browser tab. A session
// owns the mounted view and everything that animates it: the event feed, the
// traffic stream, node pulses, server actions and scroll resets. State
// changes leave the session as commands that the page script applies.
package live

import (
	"errors"

	"github.com/olegiv/iotcentral/internal/scrollreset"
	"github.com/olegiv/iotcentral/internal/view"
)

// Outgoing command types.
const (
	CmdFeedSeed     = "feed.seed"
	CmdFeedPush     = "feed.push"
	CmdStreamPoint  = "stream.point"
	CmdNodePulse    = "node.pulse"
	CmdViewSwap     = "view.swap"
	CmdScrollReset  = "scroll.reset"
	CmdServerAction = "server.action"
	CmdError        = "error"
)

// Incoming message types.
const (
	MsgNavigate     = "navigate"
	MsgPath         = "path"
	MsgRegions      = "regions"
	MsgServerAction = "server.action"
)

// Scroll reset targets.
const (
	TargetWindow     = "window"
	TargetScrollRoot = "root"
	TargetBody       = "body"
	TargetRegion     = "region"
)

// Session errors.
var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrViewNotMounted = errors.New("view is not mounted")
	ErrSessionClosed  = errors.New("session closed")
	ErrRegionDetached = errors.New("scroll region is no longer on the page")
)

// Command is a state change pushed to the page.
type Command struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Inbound is a message sent by the page.
type Inbound struct {
	Type    string               `json:"type"`
	View    string               `json:"view,omitempty"`
	Path    string               `json:"path,omitempty"`
	Regions []scrollreset.Region `json:"regions,omitempty"`
	Server  string               `json:"server,omitempty"`
	Action  string               `json:"action,omitempty"`
}

// ViewSwap tells the page to replace the mounted view.
type ViewSwap struct {
	View  view.ID `json:"view"`
	Path  string  `json:"path"`
	Title string  `json:"title"`
}

// NodePulse reports a node entering or leaving the pulsing set.
type NodePulse struct {
	ID      string `json:"id"`
	Pulsing bool   `json:"pulsing"`
}

// ScrollReset asks the page to scroll one target back to its origin.
type ScrollReset struct {
	Target string `json:"target"`
	ID     string `json:"id,omitempty"`
}

// ServerAction reports a server entering or leaving the processing state.
type ServerAction struct {
	Server     string `json:"server"`
	Action     string `json:"action"`
	Processing bool   `json:"processing"`
}

// ErrorMessage carries a user-visible error.
type ErrorMessage struct {
	Message string `json:"message"`
}
