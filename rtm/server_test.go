// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rtm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// testServer is a websocket endpoint standing in for the RTM server.
type testServer struct {
	t        *testing.T
	server   *httptest.Server
	accepted chan *serverConn

	// respond, when set, is called for every frame a client sends.
	respond func(conn *serverConn, frame map[string]any)

	mu       sync.Mutex
	autoPong bool
}

// serverConn is one accepted client connection.
type serverConn struct {
	conn     *websocket.Conn
	query    url.Values
	received chan map[string]any
	closed   chan struct{}
	ctx      context.Context
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	server := &testServer{t: t, accepted: make(chan *serverConn, 16)}
	server.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		conn, err := websocket.Accept(writer, request, nil)
		if err != nil {
			t.Errorf("websocket accept failed: %v", err)
			return
		}
		client := &serverConn{
			conn:     conn,
			query:    request.URL.Query(),
			received: make(chan map[string]any, 64),
			closed:   make(chan struct{}),
			ctx:      ctx,
		}
		server.accepted <- client
		defer close(client.closed)
		for {
			var frame map[string]any
			if err := wsjson.Read(ctx, conn, &frame); err != nil {
				return
			}
			client.received <- frame
			server.mu.Lock()
			autoPong := server.autoPong
			respond := server.respond
			server.mu.Unlock()
			if frame["type"] == "ping" && autoPong {
				client.send(map[string]any{"type": "pong", "reply_to": frame["id"]})
			}
			if respond != nil {
				respond(client, frame)
			}
		}
	}))
	t.Cleanup(func() {
		cancel()
		server.server.Close()
	})
	return server
}

// URL returns the websocket URL of the server.
func (s *testServer) URL() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http")
}

func (s *testServer) setAutoPong(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoPong = enabled
}

func (s *testServer) setRespond(respond func(*serverConn, map[string]any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respond = respond
}

func (c *serverConn) send(frame any) error {
	return wsjson.Write(c.ctx, c.conn, frame)
}

func (c *serverConn) sendRaw(text string) error {
	return c.conn.Write(c.ctx, websocket.MessageText, []byte(text))
}
