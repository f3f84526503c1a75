// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rtm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"

	"github.com/bureau-foundation/slackline/events"
	"github.com/bureau-foundation/slackline/lib/clock"
	"github.com/bureau-foundation/slackline/lib/metrics"
)

// ErrPongTimeout is emitted as EventError when a keepalive ping goes
// unanswered.
var ErrPongTimeout = errors.New("rtm: pong not received in time")

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Options Options

	// Requester fetches socket URLs. Required.
	Requester URLRequester

	// Bus receives every frame and lifecycle event. Required.
	Bus *events.Bus

	// Clock drives backoff, goodbye waits, and keepalive. Defaults to
	// clock.Real().
	Clock clock.Clock

	// Classifier recognizes migration failures. Defaults to
	// IsMigrationError.
	Classifier MigrationClassifier

	// DialOptions are passed to the websocket dialer.
	DialOptions *websocket.DialOptions

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics may be nil.
	Metrics *metrics.Collectors
}

// Manager supervises the RTM socket. Safe for concurrent use.
type Manager struct {
	options    Options
	requester  URLRequester
	bus        *events.Bus
	clock      clock.Clock
	classifier MigrationClassifier
	logger     *slog.Logger
	metrics    *metrics.Collectors
	socket     *Socket

	// nextID numbers outbound frames.
	nextID atomic.Int64

	// dialMu serializes socket dials so OnOpen always belongs to the
	// dial in progress.
	dialMu sync.Mutex

	mu       sync.Mutex
	state    State
	session  session
	cancel   context.CancelFunc
	live     uint64 // generation accepted by OnOpen, zero when none
	dialing  uint64 // epoch of the dial in progress, zero when none
	goodbye  uint64 // generation that announced goodbye
	stored   string // reconnect_url from the server
	pending  map[int64]pendingRequest
	awaiting int64 // ping id awaiting its pong

	goodbyeTimer clock.Timer
	pingTimer    clock.Timer
	pongTimer    clock.Timer
}

// session identifies one period between Destroy calls. Work started in
// an earlier session is discarded.
type session struct {
	epoch    uint64
	lifetime context.Context
}

type pendingRequest struct {
	frameType string
	reply     chan ackResult
}

type ackResult struct {
	ack *Ack
	err error
}

// Ack is the server's acknowledgement of an outbound frame.
type Ack struct {
	OK      bool            `json:"ok"`
	ReplyTo int64           `json:"reply_to"`
	TS      string          `json:"ts,omitempty"`
	Text    string          `json:"text,omitempty"`
	Error   *AckError       `json:"error,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// AckError is the error body of a negative acknowledgement.
type AckError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// NewManager returns an inactive manager.
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Requester == nil {
		return nil, fmt.Errorf("rtm: URL requester is required")
	}
	if config.Bus == nil {
		return nil, fmt.Errorf("rtm: event bus is required")
	}
	manager := &Manager{
		options:    config.Options,
		requester:  config.Requester,
		bus:        config.Bus,
		clock:      config.Clock,
		classifier: config.Classifier,
		logger:     config.Logger,
		metrics:    config.Metrics,
		pending:    make(map[int64]pendingRequest),
	}
	if manager.clock == nil {
		manager.clock = clock.Real()
	}
	if manager.classifier == nil {
		manager.classifier = IsMigrationError
	}
	if manager.logger == nil {
		manager.logger = slog.Default()
	}
	manager.logger = manager.logger.With("component", "rtm")
	manager.socket = NewSocket(SocketConfig{
		Listener:    socketEvents{manager},
		DialOptions: config.DialOptions,
		Logger:      manager.logger,
	})
	lifetime, cancel := context.WithCancel(context.Background())
	manager.session = session{epoch: 1, lifetime: lifetime}
	manager.cancel = cancel
	manager.metrics.SetState(int(StateInactive))
	return manager, nil
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connect establishes a session. With an empty socketURL it first
// requests one from the API, retrying while the workspace migrates;
// otherwise it dials socketURL directly. It returns once the socket is
// open or the attempt has failed.
func (m *Manager) Connect(ctx context.Context, socketURL string) error {
	m.mu.Lock()
	current := m.session
	m.mu.Unlock()
	return m.connect(ctx, current, socketURL)
}

func (m *Manager) connect(ctx context.Context, current session, socketURL string) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	defer context.AfterFunc(current.lifetime, stop)()

	for attempt := 0; socketURL == ""; attempt++ {
		if !m.setState(current, StateRequesting) {
			return ErrDestroyed
		}
		response, err := m.requester(ctx)
		if m.stale(current) {
			return ErrDestroyed
		}
		if err != nil {
			retry, err := m.requestFailed(ctx, current, attempt, err)
			if !retry {
				return err
			}
			continue
		}
		if response == nil || response.URL == "" {
			m.metrics.ConnectResult("fatal")
			m.settle(current)
			return &FatalError{Reason: "no connection URL provided"}
		}
		m.emit(EventAuthenticated, response)
		socketURL = response.URL
	}
	return m.dial(ctx, current, socketURL)
}

// requestFailed handles a failed URL request. It reports whether the
// request should be repeated, after waiting out the migration backoff.
func (m *Manager) requestFailed(ctx context.Context, current session, attempt int, cause error) (bool, error) {
	if !m.classifier(cause) {
		m.metrics.ConnectResult("request_failed")
		m.settle(current)
		m.emit(EventRequestFail, cause)
		return false, fmt.Errorf("rtm: requesting connection URL: %w", cause)
	}

	m.mu.Lock()
	m.stored = ""
	m.mu.Unlock()

	event := MigratingEvent{Attempt: attempt, Err: cause}
	event.Retrying = m.options.RetryIfMigrating && attempt < m.options.MigrationRetryAttempts
	if !event.Retrying {
		m.metrics.ConnectResult("migrating")
		m.settle(current)
		m.emit(EventMigrating, event)
		return false, fmt.Errorf("%w: %w", ErrMigrationInProgress, cause)
	}

	event.Delay = m.options.migrationDelay(attempt)
	m.metrics.MigrationRetry()
	m.setState(current, StateMigratingRetry)
	m.logger.Info("workspace migrating, retrying connection", "attempt", attempt, "delay", event.Delay)
	m.emit(EventMigrating, event)

	select {
	case <-m.clock.After(event.Delay):
		return true, nil
	case <-ctx.Done():
		if m.stale(current) {
			return false, ErrDestroyed
		}
		m.settle(current)
		return false, ctx.Err()
	}
}

func (m *Manager) dial(ctx context.Context, current session, socketURL string) error {
	m.dialMu.Lock()
	defer m.dialMu.Unlock()

	m.mu.Lock()
	if current.epoch != m.session.epoch {
		m.mu.Unlock()
		return ErrDestroyed
	}
	m.dialing = current.epoch
	from := m.state
	m.state = StateConnecting
	m.mu.Unlock()
	m.announceState(from, StateConnecting)

	err := m.socket.Connect(ctx, socketURL)
	m.mu.Lock()
	m.dialing = 0
	m.mu.Unlock()
	if err != nil {
		if m.stale(current) {
			return ErrDestroyed
		}
		m.metrics.ConnectResult("dial_failed")
		m.settle(current)
		return err
	}
	if m.stale(current) {
		m.socket.Terminate()
		return ErrDestroyed
	}
	m.metrics.ConnectResult("ok")
	return nil
}

// Destroy closes the socket, cancels pending timers and reconnects,
// and returns the manager to StateInactive. A Connect in progress
// returns ErrDestroyed. The manager may be connected again afterwards.
func (m *Manager) Destroy() {
	m.mu.Lock()
	m.cancel()
	lifetime, cancel := context.WithCancel(context.Background())
	m.session = session{epoch: m.session.epoch + 1, lifetime: lifetime}
	m.cancel = cancel
	m.live = 0
	m.goodbye = 0
	m.stored = ""
	m.stopTimersLocked()
	pending := m.takePendingLocked()
	from := m.state
	m.state = StateInactive
	m.mu.Unlock()

	m.socket.Terminate()
	failPending(pending, ErrDestroyed)
	m.announceState(from, StateInactive)
}

// Send writes frame with a fresh "id" and returns the id. The caller's
// map is not modified.
func (m *Manager) Send(ctx context.Context, frame map[string]any) (int64, error) {
	id := m.nextID.Add(1)
	if err := m.sendFrame(ctx, withID(frame, id)); err != nil {
		return 0, err
	}
	return id, nil
}

// Request sends frame and waits for the server's acknowledgement. A
// negative acknowledgement is returned as an *api.RemoteError.
func (m *Manager) Request(ctx context.Context, frame map[string]any) (*Ack, error) {
	id := m.nextID.Add(1)
	frameType, _ := frame["type"].(string)
	reply := make(chan ackResult, 1)
	m.mu.Lock()
	m.pending[id] = pendingRequest{frameType: frameType, reply: reply}
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
	}()

	if err := m.sendFrame(ctx, withID(frame, id)); err != nil {
		return nil, err
	}
	select {
	case result := <-reply:
		return result.ack, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) sendFrame(ctx context.Context, frame map[string]any) error {
	if err := m.socket.Send(ctx, frame); err != nil {
		return err
	}
	m.metrics.FrameSent()
	return nil
}

func withID(frame map[string]any, id int64) map[string]any {
	out := maps.Clone(frame)
	if out == nil {
		out = make(map[string]any, 1)
	}
	out["id"] = id
	return out
}

// setState moves to state unless current has been superseded by
// Destroy. It reports whether the transition happened.
func (m *Manager) setState(current session, state State) bool {
	m.mu.Lock()
	if current.epoch != m.session.epoch {
		m.mu.Unlock()
		return false
	}
	from := m.state
	m.state = state
	m.mu.Unlock()
	m.announceState(from, state)
	return true
}

// settle ends a failed connect attempt: active when a socket is still
// live, inactive otherwise.
func (m *Manager) settle(current session) {
	m.mu.Lock()
	if current.epoch != m.session.epoch {
		m.mu.Unlock()
		return
	}
	from := m.state
	m.state = StateInactive
	if m.live != 0 {
		m.state = StateActive
	}
	to := m.state
	m.mu.Unlock()
	m.announceState(from, to)
}

func (m *Manager) announceState(from, to State) {
	if from == to {
		return
	}
	m.metrics.SetState(int(to))
	m.logger.Debug("rtm state changed", "from", from, "state", to)
	m.emit(EventState, StateChange{From: from, To: to})
}

func (m *Manager) stale(current session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return current.epoch != m.session.epoch
}

func (m *Manager) emit(name string, payload any) {
	m.bus.Emit(name, payload)
}

// reconnect re-establishes the session after an unplanned loss: first
// with the server-provided reconnect URL when there is one, then by
// requesting a new URL.
func (m *Manager) reconnect(current session) {
	m.mu.Lock()
	if current.epoch != m.session.epoch {
		m.mu.Unlock()
		return
	}
	stored := m.stored
	m.stored = ""
	m.mu.Unlock()

	if stored != "" {
		err := m.connect(current.lifetime, current, stored)
		if err == nil || errors.Is(err, ErrDestroyed) {
			return
		}
		m.logger.Warn("reconnect URL failed, requesting a new one", "error", err)
	}
	if err := m.connect(current.lifetime, current, ""); err != nil && !errors.Is(err, ErrDestroyed) {
		m.logger.Error("rtm reconnect failed", "error", err)
	}
}

func (m *Manager) stopTimersLocked() {
	if m.goodbyeTimer != nil {
		m.goodbyeTimer.Stop()
		m.goodbyeTimer = nil
	}
	m.stopKeepaliveLocked()
}

func (m *Manager) stopKeepaliveLocked() {
	if m.pingTimer != nil {
		m.pingTimer.Stop()
		m.pingTimer = nil
	}
	if m.pongTimer != nil {
		m.pongTimer.Stop()
		m.pongTimer = nil
	}
	m.awaiting = 0
}

func (m *Manager) takePendingLocked() map[int64]pendingRequest {
	pending := m.pending
	m.pending = make(map[int64]pendingRequest)
	return pending
}

func failPending(pending map[int64]pendingRequest, err error) {
	for _, request := range pending {
		request.reply <- ackResult{err: err}
	}
}
