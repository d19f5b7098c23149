// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package live

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// Connection timing and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 16 // region reports can list many elements
	maxBatch   = 64
)

// Serve pumps a session over a WebSocket connection until either side goes
// away or ctx is cancelled. Page messages are applied in arrival order;
// commands are written in batches, and frame callbacks run after each batch.
func Serve(ctx context.Context, conn *websocket.Conn, s *Session, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session", s.ID())

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	readDone := make(chan struct{})
	go readLoop(conn, s, logger, readDone)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			closeConn(conn, websocket.CloseGoingAway, "server shutting down")
			return
		case <-s.Done():
			closeConn(conn, websocket.CloseNormalClosure, "session closed")
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Debug("live ping failed", "error", err)
				return
			}
		case cmd := <-s.Outbox():
			if err := writeBatch(conn, s, cmd); err != nil {
				logger.Debug("live write failed", "error", err)
				return
			}
			s.RunFrames()
		}
	}
}

// writeBatch writes cmd and whatever else is already queued, up to maxBatch.
func writeBatch(conn *websocket.Conn, s *Session, first Command) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(first); err != nil {
		return err
	}
	for i := 1; i < maxBatch; i++ {
		select {
		case cmd := <-s.Outbox():
			if err := conn.WriteJSON(cmd); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func readLoop(conn *websocket.Conn, s *Session, logger *slog.Logger, done chan<- struct{}) {
	defer close(done)
	for {
		var in Inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("live read closed", "error", err)
			}
			return
		}
		if err := s.Handle(in); err != nil {
			if errors.Is(err, ErrSessionClosed) {
				return
			}
			logger.Debug("live message rejected", "type", in.Type, "error", err)
			s.emit(CmdError, ErrorMessage{Message: err.Error()})
		}
	}
}

func closeConn(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
