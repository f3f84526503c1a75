// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// platform stands in for the chat service: an HTTP API under /api/ and
// an RTM endpoint under /rtm.
type platform struct {
	t        *testing.T
	server   *httptest.Server
	accepted chan *platformConn

	mu        sync.Mutex
	responses map[string]func(url.Values) map[string]any
	calls     []string
}

// platformConn is one accepted socket.
type platformConn struct {
	conn     *websocket.Conn
	received chan map[string]any
	ctx      context.Context
}

func newPlatform(t *testing.T) *platform {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	p := &platform{
		t:         t,
		accepted:  make(chan *platformConn, 4),
		responses: make(map[string]func(url.Values) map[string]any),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/", p.serveAPI)
	mux.HandleFunc("/rtm", func(writer http.ResponseWriter, request *http.Request) {
		conn, err := websocket.Accept(writer, request, nil)
		if err != nil {
			t.Errorf("websocket accept failed: %v", err)
			return
		}
		client := &platformConn{conn: conn, received: make(chan map[string]any, 64), ctx: ctx}
		p.accepted <- client
		for {
			var frame map[string]any
			if err := wsjson.Read(ctx, conn, &frame); err != nil {
				return
			}
			client.received <- frame
			if frame["type"] == "message" {
				client.send(map[string]any{"ok": true, "reply_to": frame["id"], "ts": "1700000100.000100", "text": frame["text"]})
			}
		}
	})
	p.server = httptest.NewServer(mux)
	t.Cleanup(func() {
		cancel()
		p.server.Close()
	})
	p.installDefaults()
	return p
}

func (p *platform) baseURL() string { return p.server.URL + "/api/" }

func (p *platform) socketURL() string {
	return "ws" + strings.TrimPrefix(p.server.URL, "http") + "/rtm"
}

// set replaces the response to method. The "ok" field is added unless
// the body sets it.
func (p *platform) set(method string, respond func(url.Values) map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses[method] = respond
}

func (p *platform) setBody(method string, body map[string]any) {
	p.set(method, func(url.Values) map[string]any { return body })
}

func (p *platform) callLog() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *platform) serveAPI(writer http.ResponseWriter, request *http.Request) {
	method := strings.TrimPrefix(request.URL.Path, "/api/")
	if got := request.Header.Get("Authorization"); got != "Bearer xoxb-test" {
		p.t.Errorf("%s: Authorization = %q", method, got)
	}
	p.mu.Lock()
	p.calls = append(p.calls, method)
	respond, ok := p.responses[method]
	p.mu.Unlock()

	body := map[string]any{"ok": false, "error": "unknown_method"}
	if ok {
		body = respond(request.URL.Query())
		if _, set := body["ok"]; !set {
			body["ok"] = true
		}
	}
	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(body)
}

func (p *platform) installDefaults() {
	p.setBody("auth.test", map[string]any{
		"url": "https://engines.example.test/", "team": "Engines", "user": "ada",
		"team_id": "T1", "user_id": "U1",
	})
	p.setBody("team.info", map[string]any{
		"team": map[string]any{"id": "T1", "name": "Engines", "domain": "engines"},
	})
	p.setBody("users.list", map[string]any{
		"members": []map[string]any{
			{"id": "U1", "name": "ada"},
			{"id": "U2", "name": "grace"},
		},
	})
	p.setBody("conversations.list", map[string]any{
		"channels": []map[string]any{
			{"id": "C1", "name": "general", "is_channel": true, "is_member": true},
			{"id": "D1", "is_im": true, "user": "U2"},
		},
	})
	p.set("conversations.members", func(query url.Values) map[string]any {
		if query.Get("channel") != "C1" {
			return map[string]any{"ok": false, "error": "channel_not_found"}
		}
		return map[string]any{"members": []string{"U1", "U2"}}
	})
	p.setBody("dnd.teamInfo", map[string]any{
		"users": map[string]any{
			"U2": map[string]any{"dnd_enabled": true, "next_dnd_start_ts": 1700000000, "next_dnd_end_ts": 1700003600},
		},
	})
	p.set("rtm.connect", func(url.Values) map[string]any {
		return map[string]any{
			"url":  p.socketURL(),
			"self": map[string]any{"id": "U1", "name": "ada"},
			"team": map[string]any{"id": "T1", "name": "Engines", "domain": "engines"},
		}
	})
}

func (c *platformConn) send(frame any) error {
	return wsjson.Write(c.ctx, c.conn, frame)
}
