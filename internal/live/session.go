// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package live

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/iotcentral/internal/catalog"
	"github.com/olegiv/iotcentral/internal/clock"
	"github.com/olegiv/iotcentral/internal/metrics"
	"github.com/olegiv/iotcentral/internal/scrollreset"
	"github.com/olegiv/iotcentral/internal/telemetry"
	"github.com/olegiv/iotcentral/internal/topology"
	"github.com/olegiv/iotcentral/internal/view"
)

// Config holds the timing of a live session.
type Config struct {
	FeedInterval   time.Duration
	StreamInterval time.Duration
	OutboxSize     int
}

// DefaultConfig returns the dashboard defaults: a feed event every three
// seconds and a traffic sample with a node pulse every two.
func DefaultConfig() Config {
	return Config{
		FeedInterval:   3 * time.Second,
		StreamInterval: 2 * time.Second,
		OutboxSize:     256,
	}
}

// Session is the live state of one dashboard tab. Exactly one view is
// mounted at a time; switching views unmounts the previous one and stops
// everything it scheduled.
type Session struct {
	id     string
	cfg    Config
	logger *slog.Logger

	selection *view.Selection
	feed      *telemetry.Feed
	stream    *telemetry.Stream
	traffic   *clock.Ticker
	pulses    *topology.Simulator
	actions   *catalog.ActionTracker
	registry  *RemoteRegistry
	frames    *flushFrames
	scroll    *scrollreset.Controller

	out       chan Command
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	mounted view.ID
	opened  bool
	// trafficGen changes on every live IoT mount and unmount; a tick
	// carrying an older value belongs to a schedule that was stopped.
	trafficGen uint64
}

// NewSession creates a session with no view mounted. Call Open to start it.
func NewSession(gen *telemetry.Generator, c clock.Clock, cfg Config, logger *slog.Logger) *Session {
	def := DefaultConfig()
	if cfg.FeedInterval <= 0 {
		cfg.FeedInterval = def.FeedInterval
	}
	if cfg.StreamInterval <= 0 {
		cfg.StreamInterval = def.StreamInterval
	}
	if cfg.OutboxSize <= 0 {
		cfg.OutboxSize = def.OutboxSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.NewString()
	s := &Session{
		id:        id,
		cfg:       cfg,
		logger:    logger.With("session", id),
		selection: view.NewSelection(),
		stream:    telemetry.NewStream(gen, telemetry.StreamCapacity),
		traffic:   clock.NewTicker(c),
		pulses:    topology.NewSimulator(c, gen.Intn),
		actions:   catalog.NewActionTracker(c),
		frames:    newFlushFrames(),
		out:       make(chan Command, cfg.OutboxSize),
		done:      make(chan struct{}),
	}

	feedCfg := telemetry.DefaultFeedConfig()
	feedCfg.Interval = cfg.FeedInterval
	s.feed = telemetry.NewFeed(gen, c, feedCfg)
	s.registry = NewRemoteRegistry(s.send)
	s.scroll = scrollreset.New(s.registry, c, s.frames, s.logger)

	s.feed.OnPush(func(ev telemetry.Event) {
		metrics.FeedEvents.Inc()
		s.emit(CmdFeedPush, ev)
	})
	s.stream.OnPush(func(p telemetry.DataPoint) {
		s.emit(CmdStreamPoint, p)
	})
	s.pulses.OnChange(func(id string, pulsing bool) {
		s.emit(CmdNodePulse, NodePulse{ID: id, Pulsing: pulsing})
	})
	s.actions.OnChange(func(server, action string, processing bool) {
		s.emit(CmdServerAction, ServerAction{Server: server, Action: action, Processing: processing})
	})
	s.selection.OnChange(s.switchView)

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Outbox returns the commands waiting to be sent to the page.
func (s *Session) Outbox() <-chan Command {
	return s.out
}

// Done is closed when the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Current returns the selected view.
func (s *Session) Current() view.ID {
	return s.selection.Current()
}

// Open mounts the initial view and applies the page's current path: a chat
// route overrides the initial view, and the path triggers a scroll reset.
func (s *Session) Open(initial view.ID, path string) error {
	s.mu.Lock()
	if s.isClosed() {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.opened {
		s.mu.Unlock()
		return nil
	}
	s.opened = true
	s.selection.Restore(initial)
	s.mountLocked(s.selection.Current())
	s.mu.Unlock()

	metrics.LiveSessions.Inc()
	s.logger.Debug("live session opened", "view", s.selection.Current(), "path", path)

	s.observePath(path)
	return nil
}

// Handle applies one message from the page.
func (s *Session) Handle(in Inbound) error {
	if s.isClosed() {
		return ErrSessionClosed
	}

	switch in.Type {
	case MsgNavigate:
		if err := s.selection.Select(view.ID(in.View)); err != nil {
			return fmt.Errorf("navigating to %q: %w", in.View, err)
		}
		return nil
	case MsgPath:
		s.observePath(in.Path)
		return nil
	case MsgRegions:
		s.registry.Update(in.Regions)
		return nil
	case MsgServerAction:
		s.mu.Lock()
		mounted := s.mounted
		s.mu.Unlock()
		if mounted != view.Servers {
			return ErrViewNotMounted
		}
		return s.actions.Start(in.Server, in.Action)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, in.Type)
	}
}

// RunFrames runs the scroll passes waiting for the next frame. The
// connection writer calls it after every flush.
func (s *Session) RunFrames() int {
	if s.isClosed() {
		return 0
	}
	return s.frames.run()
}

// Feed returns the feed of the overview view.
func (s *Session) Feed() *telemetry.Feed {
	return s.feed
}

// Stream returns the traffic stream of the live infrastructure view.
func (s *Session) Stream() *telemetry.Stream {
	return s.stream
}

// Pulses returns the node pulse simulator.
func (s *Session) Pulses() *topology.Simulator {
	return s.pulses
}

// Actions returns the server action tracker.
func (s *Session) Actions() *catalog.ActionTracker {
	return s.actions
}

// Close unmounts the current view and cancels every pending callback.
// It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.scroll.Stop()

		s.mu.Lock()
		if s.opened {
			s.unmountLocked(s.mounted)
			metrics.LiveSessions.Dec()
		}
		s.mu.Unlock()

		s.logger.Debug("live session closed")
	})
}

func (s *Session) observePath(path string) {
	if path == "" {
		return
	}
	s.selection.ObservePath(path)
	s.scroll.Trigger(path)
}

// switchView is the selection observer: it swaps the mounted subtree and
// resets scroll positions for the new view's path.
func (s *Session) switchView(prev, next view.ID) {
	s.mu.Lock()
	if !s.opened || s.isClosed() {
		s.mu.Unlock()
		return
	}
	s.unmountLocked(prev)
	s.mountLocked(next)
	s.mu.Unlock()

	path := view.Path(next)
	s.emit(CmdViewSwap, ViewSwap{View: next, Path: path, Title: view.Title(next)})
	s.scroll.Trigger(path)
}

func (s *Session) mountLocked(id view.ID) {
	s.mounted = id

	switch id {
	case view.Dashboard:
		s.feed.Mount()
		s.emit(CmdFeedSeed, s.feed.Snapshot())
	case view.LiveIoT:
		s.stream.Reset()
		s.trafficGen++
		gen := s.trafficGen
		s.traffic.Start(s.cfg.StreamInterval, func() { s.trafficTick(gen) })
	}
}

func (s *Session) unmountLocked(id view.ID) {
	switch id {
	case view.Dashboard:
		s.feed.Unmount()
	case view.LiveIoT:
		s.trafficGen++
		s.traffic.Stop()
		s.pulses.Stop()
	case view.Servers:
		s.actions.Stop()
	}
}

// trafficTick runs under the session lock so it cannot interleave with an
// unmount. A tick from a stopped schedule is dropped.
func (s *Session) trafficTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.trafficGen || s.isClosed() {
		return
	}
	s.stream.Tick()
	s.pulses.Tick()
	metrics.NodePulses.Inc()
}

// send queues a command without blocking. A full outbox drops the command:
// everything the session pushes is cosmetic and superseded by the next tick.
func (s *Session) send(cmd Command) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.out <- cmd:
		return nil
	default:
		s.logger.Debug("live outbox full, dropping command", "type", cmd.Type)
		return nil
	}
}

func (s *Session) emit(typ string, data any) {
	_ = s.send(Command{Type: typ, Data: data})
}

func (s *Session) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
