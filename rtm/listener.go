// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rtm

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/slackline/api"
)

// socketEvents adapts the Manager to SocketListener without exporting
// the callbacks on Manager itself.
type socketEvents struct{ m *Manager }

func (l socketEvents) OnOpen(generation uint64) {
	m := l.m
	m.mu.Lock()
	// Destroy started a new session while this connection was dialing;
	// dial terminates it.
	if m.dialing == 0 || m.dialing != m.session.epoch {
		m.mu.Unlock()
		return
	}
	m.live = generation
	m.goodbye = 0
	m.stopKeepaliveLocked()
	from := m.state
	m.state = StateActive
	current := m.session
	m.mu.Unlock()

	m.logger.Info("rtm connected", "generation", generation)
	m.announceState(from, StateActive)
	m.startKeepalive(current, generation)
	m.emit(EventOpen, generation)
}

func (l socketEvents) OnFrame(generation uint64, frame Frame) {
	m := l.m
	if !m.isLive(generation) {
		return
	}
	label := frame.Type
	if label == "" {
		label = "ack"
	}
	m.metrics.FrameReceived(label)

	switch frame.Type {
	case "goodbye":
		m.handleGoodbye(generation)
	case "reconnect_url":
		var body struct {
			URL string `json:"url"`
		}
		if err := frame.Decode(&body); err == nil && body.URL != "" {
			m.mu.Lock()
			m.stored = body.URL
			m.mu.Unlock()
		}
	case "pong":
		m.handlePong(frame.ReplyTo)
	default:
		if frame.ReplyTo != 0 {
			m.resolve(frame)
		}
	}
	m.emit(EventFrame, frame)
}

func (l socketEvents) OnError(generation uint64, err error) {
	m := l.m
	if !m.isLive(generation) {
		return
	}
	m.metrics.FrameDecodeFailed()
	m.logger.Warn("rtm frame dropped", "error", err)
	m.emit(EventError, err)
}

func (l socketEvents) OnClose(generation uint64, err error) {
	m := l.m
	m.mu.Lock()
	if generation == 0 || generation != m.live {
		m.mu.Unlock()
		return
	}
	m.live = 0
	m.stopKeepaliveLocked()
	pending := m.takePendingLocked()
	saidGoodbye := m.goodbye == generation
	from := m.state
	if m.state == StateActive {
		m.state = StateInactive
	}
	to := m.state
	current := m.session
	m.mu.Unlock()

	failPending(pending, ErrConnectionClosed)
	local := errors.Is(err, ErrTerminated)
	if local {
		m.logger.Debug("rtm connection closed locally", "generation", generation)
	} else {
		m.logger.Info("rtm connection closed", "generation", generation, "error", err)
	}
	m.announceState(from, to)
	m.emit(EventClose, CloseEvent{Generation: generation, Err: err})

	if !local && !saidGoodbye && m.options.AutoReconnect {
		go m.reconnect(current)
	}
}

func (m *Manager) isLive(generation uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return generation != 0 && generation == m.live
}

// handleGoodbye schedules a renegotiated connect after the goodbye
// wait. The server closes the socket shortly after a goodbye; that
// close does not trigger a second reconnect.
func (m *Manager) handleGoodbye(generation uint64) {
	m.logger.Info("rtm server said goodbye", "generation", generation)
	m.emit(EventGoodbye, generation)
	if !m.options.AutoReconnect {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if generation != m.live {
		return
	}
	m.goodbye = generation
	if m.goodbyeTimer != nil {
		m.goodbyeTimer.Stop()
	}
	current := m.session
	m.goodbyeTimer = m.clock.AfterFunc(m.options.GoodbyeWaitTime, func() {
		go func() {
			if err := m.connect(current.lifetime, current, ""); err != nil && !errors.Is(err, ErrDestroyed) {
				m.logger.Error("rtm reconnect after goodbye failed", "error", err)
			}
		}()
	})
}

func (m *Manager) startKeepalive(current session, generation uint64) {
	if m.options.PingInterval <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if generation != m.live {
		return
	}
	m.pingTimer = m.clock.AfterFunc(m.options.PingInterval, func() { m.ping(current, generation) })
}

func (m *Manager) ping(current session, generation uint64) {
	m.mu.Lock()
	if generation != m.live || current.epoch != m.session.epoch {
		m.mu.Unlock()
		return
	}
	m.pingTimer = m.clock.AfterFunc(m.options.PingInterval, func() { m.ping(current, generation) })
	if m.awaiting != 0 {
		m.mu.Unlock()
		return
	}
	id := m.nextID.Add(1)
	m.awaiting = id
	if m.options.PongTimeout > 0 {
		m.pongTimer = m.clock.AfterFunc(m.options.PongTimeout, func() { m.pongMissed(current, generation, id) })
	}
	m.mu.Unlock()

	if err := m.sendFrame(current.lifetime, map[string]any{"type": "ping", "id": id}); err != nil {
		m.logger.Warn("rtm ping failed", "error", err)
	}
}

func (m *Manager) handlePong(replyTo int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if replyTo == 0 || replyTo != m.awaiting {
		return
	}
	m.awaiting = 0
	if m.pongTimer != nil {
		m.pongTimer.Stop()
		m.pongTimer = nil
	}
}

func (m *Manager) pongMissed(current session, generation uint64, id int64) {
	m.mu.Lock()
	if generation != m.live || m.awaiting != id {
		m.mu.Unlock()
		return
	}
	m.awaiting = 0
	m.pongTimer = nil
	m.mu.Unlock()

	m.metrics.KeepaliveMissed()
	m.logger.Warn("rtm pong not received, reconnecting", "generation", generation, "ping_id", id)
	m.emit(EventError, ErrPongTimeout)
	m.socket.Terminate()
	if m.options.AutoReconnect {
		go m.reconnect(current)
	}
}

// resolve completes the Request waiting for frame's reply_to id.
func (m *Manager) resolve(frame Frame) {
	m.mu.Lock()
	request, ok := m.pending[frame.ReplyTo]
	delete(m.pending, frame.ReplyTo)
	m.mu.Unlock()
	if !ok {
		return
	}

	var ack Ack
	if err := frame.Decode(&ack); err != nil {
		request.reply <- ackResult{err: fmt.Errorf("rtm: decoding reply to %d: %w", frame.ReplyTo, err)}
		return
	}
	ack.Raw = frame.Raw
	if !ack.OK {
		remote := &api.RemoteError{Method: "rtm." + request.frameType, Code: api.CodeUnknown}
		if ack.Error != nil && ack.Error.Msg != "" {
			remote.Code = ack.Error.Msg
		}
		request.reply <- ackResult{ack: &ack, err: remote}
		return
	}
	request.reply <- ackResult{ack: &ack}
}
