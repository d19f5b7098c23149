// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package telemetry

import (
	"math/rand/v2"
	"sync"

	"github.com/olegiv/iotcentral/internal/clock"
)

// Generator creates synthetic events and stream samples.
// It is safe for concurrent use.
type Generator struct {
	clock clock.Clock

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator creates a generator reading time from c and randomness from src.
// A nil src seeds from the runtime's random source.
func NewGenerator(c clock.Clock, src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{clock: c, rnd: rand.New(src)}
}

// Generate returns an event with the given id. Category, message and device
// are drawn uniformly and independently from their catalogs.
func (g *Generator) Generate(id int64) Event {
	now := g.clock.Now()

	g.mu.Lock()
	msg := Messages[g.rnd.IntN(len(Messages))]
	cat := Categories[g.rnd.IntN(len(Categories))]
	dev := Devices[g.rnd.IntN(len(Devices))]
	g.mu.Unlock()

	return Event{
		ID:        id,
		Timestamp: now.Format(TimestampLayout),
		CreatedAt: now,
		Category:  cat,
		Message:   msg,
		Device:    dev,
	}
}

// GeneratePoint returns a traffic sample stamped with the current hour and minute.
func (g *Generator) GeneratePoint() DataPoint {
	now := g.clock.Now()

	g.mu.Lock()
	in := InboundMin + g.rnd.IntN(InboundSpan)
	out := OutboundMin + g.rnd.IntN(OutboundSpan)
	g.mu.Unlock()

	return DataPoint{Time: now.Format(PointLayout), Inbound: in, Outbound: out}
}

// Intn returns a uniform integer in [0, n). Other dashboard simulators share
// the generator's random source through it.
func (g *Generator) Intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.IntN(n)
}
