// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rtm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/bureau-foundation/slackline/lib/netutil"
)

// ErrNotConnected is returned when sending without a live connection.
var ErrNotConnected = errors.New("rtm: not connected")

// ErrTerminated is the close reason passed to OnClose for a connection
// that was ended locally by Terminate or replaced by Connect.
var ErrTerminated = errors.New("rtm: connection terminated")

// SocketListener receives connection lifecycle and frames. Calls for
// one generation arrive in order: OnOpen, then OnFrame and OnError as
// frames are read, then exactly one OnClose. OnFrame, OnError, and
// OnClose run on the connection's read goroutine; the next frame is
// not read until OnFrame returns.
type SocketListener interface {
	OnOpen(generation uint64)
	OnFrame(generation uint64, frame Frame)
	OnError(generation uint64, err error)
	OnClose(generation uint64, err error)
}

// SocketConfig configures a Socket.
type SocketConfig struct {
	Listener SocketListener

	// DialOptions are passed to websocket.Dial. Nil uses defaults.
	DialOptions *websocket.DialOptions

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Socket holds at most one live websocket connection.
type Socket struct {
	listener    SocketListener
	dialOptions *websocket.DialOptions
	logger      *slog.Logger

	mu         sync.Mutex
	generation uint64
	current    *connection
}

// connection is one dialed websocket and its read goroutine.
type connection struct {
	generation uint64
	conn       *websocket.Conn
	cancel     context.CancelFunc
	done       chan struct{}
	terminated atomic.Bool
	// inCallback is nonzero while the read goroutine is inside a
	// listener call.
	inCallback atomic.Int32
}

// NewSocket returns a socket with no connection.
func NewSocket(config SocketConfig) *Socket {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Socket{
		listener:    config.Listener,
		dialOptions: config.DialOptions,
		logger:      logger,
	}
}

// Connect dials url and starts reading from it. Any previous
// connection is terminated first, so at most one connection is live
// when Connect returns. OnOpen is called before Connect returns.
func (s *Socket) Connect(ctx context.Context, socketURL string) error {
	s.Terminate()

	conn, _, err := websocket.Dial(ctx, socketURL, s.dialOptions)
	if err != nil {
		return fmt.Errorf("rtm: dialing %s: %w", redactURL(socketURL), err)
	}
	conn.SetReadLimit(netutil.MaxFrameSize)

	readContext, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.generation++
	next := &connection{
		generation: s.generation,
		conn:       conn,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	// A concurrent Connect may have installed a connection while this
	// one was dialing.
	previous := s.current
	s.current = next
	s.mu.Unlock()
	if previous != nil {
		s.terminate(previous)
	}

	s.logger.Debug("rtm socket connected", "generation", next.generation, "url", redactURL(socketURL))
	if s.listener != nil {
		s.listener.OnOpen(next.generation)
	}
	go s.readLoop(readContext, next)
	return nil
}

// Generation returns the live connection's generation, or zero when
// there is none.
func (s *Socket) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0
	}
	return s.current.generation
}

// Send writes v as one JSON text frame on the live connection.
func (s *Socket) Send(ctx context.Context, v any) error {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil {
		return ErrNotConnected
	}
	if err := wsjson.Write(ctx, current.conn, v); err != nil {
		return fmt.Errorf("rtm: sending frame: %w", err)
	}
	return nil
}

// Terminate closes the live connection, if any. It waits for the read
// goroutine to finish unless called from inside a listener callback.
// Safe to call repeatedly.
func (s *Socket) Terminate() {
	s.mu.Lock()
	current := s.current
	s.current = nil
	s.mu.Unlock()
	if current != nil {
		s.terminate(current)
	}
}

func (s *Socket) terminate(c *connection) {
	if !c.terminated.CompareAndSwap(false, true) {
		return
	}
	c.cancel()
	c.conn.CloseNow()
	if c.inCallback.Load() == 0 {
		<-c.done
	}
}

func (s *Socket) readLoop(ctx context.Context, c *connection) {
	defer close(c.done)
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if c.terminated.Load() {
				err = ErrTerminated
			} else if !netutil.IsExpectedCloseError(err) {
				s.logger.Warn("rtm socket read failed", "generation", c.generation, "error", err)
			}
			s.mu.Lock()
			if s.current == c {
				s.current = nil
			}
			s.mu.Unlock()
			c.cancel()
			s.deliver(c, func(listener SocketListener) { listener.OnClose(c.generation, err) })
			return
		}

		frame, err := ParseFrame(data)
		if err != nil {
			s.deliver(c, func(listener SocketListener) { listener.OnError(c.generation, err) })
			continue
		}
		s.deliver(c, func(listener SocketListener) { listener.OnFrame(c.generation, frame) })
	}
}

func (s *Socket) deliver(c *connection, call func(SocketListener)) {
	if s.listener == nil {
		return
	}
	c.inCallback.Add(1)
	defer c.inCallback.Add(-1)
	call(s.listener)
}

// redactURL drops the query string, which carries a session ticket.
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	parsed.RawQuery = ""
	return parsed.String()
}
