// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rtm

import (
	"context"
	"errors"
	"testing"

	"github.com/bureau-foundation/slackline/lib/testutil"
)

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Frame
		wantErr bool
	}{
		{name: "event", input: `{"type":"hello"}`, want: Frame{Type: "hello"}},
		{name: "ack", input: `{"ok":true,"reply_to":7,"ts":"1.0"}`, want: Frame{ReplyTo: 7}},
		{name: "pong", input: `{"type":"pong","reply_to":3}`, want: Frame{Type: "pong", ReplyTo: 3}},
		{name: "not json", input: `hello`, wantErr: true},
		{name: "array", input: `[1,2]`, wantErr: true},
		{name: "no type", input: `{"channel":"C1"}`, wantErr: true},
		{name: "numeric type", input: `{"type":5}`, wantErr: true},
		{name: "null", input: `null`, wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			frame, err := ParseFrame([]byte(test.input))
			if test.wantErr {
				var decodeError *DecodeError
				if !errors.As(err, &decodeError) {
					t.Fatalf("ParseFrame error = %v, want *DecodeError", err)
				}
				if string(decodeError.Raw) != test.input {
					t.Errorf("Raw = %q, want %q", decodeError.Raw, test.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFrame failed: %v", err)
			}
			if frame.Type != test.want.Type || frame.ReplyTo != test.want.ReplyTo {
				t.Errorf("frame = %+v, want %+v", frame, test.want)
			}
			if string(frame.Raw) != test.input {
				t.Errorf("Raw = %s, want %s", frame.Raw, test.input)
			}
		})
	}
}

// recordingListener forwards socket callbacks to channels.
type recordingListener struct {
	opens  chan uint64
	frames chan Frame
	errors chan error
	closes chan closeRecord

	// onFrame runs before the frame is recorded. Set before Connect.
	onFrame func(Frame)
}

type closeRecord struct {
	generation uint64
	err        error
}

func newRecordingListener() *recordingListener {
	return &recordingListener{
		opens:  make(chan uint64, 8),
		frames: make(chan Frame, 64),
		errors: make(chan error, 8),
		closes: make(chan closeRecord, 8),
	}
}

func (l *recordingListener) OnOpen(generation uint64) { l.opens <- generation }

func (l *recordingListener) OnFrame(_ uint64, frame Frame) {
	if l.onFrame != nil {
		l.onFrame(frame)
	}
	l.frames <- frame
}

func (l *recordingListener) OnError(_ uint64, err error) { l.errors <- err }

func (l *recordingListener) OnClose(generation uint64, err error) {
	l.closes <- closeRecord{generation: generation, err: err}
}

func TestSocketReadsFramesAndSurvivesGarbage(t *testing.T) {
	server := newTestServer(t)
	listener := newRecordingListener()
	socket := NewSocket(SocketConfig{Listener: listener})
	t.Cleanup(socket.Terminate)

	if err := socket.Connect(context.Background(), server.URL()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if generation := testutil.RequireReceive(t, listener.opens, testutil.DefaultTimeout, "open"); generation != 1 {
		t.Errorf("generation = %d, want 1", generation)
	}
	conn := testutil.RequireReceive(t, server.accepted, testutil.DefaultTimeout, "accept")

	conn.sendRaw("{broken")
	conn.send(map[string]any{"type": "hello"})

	err := testutil.RequireReceive(t, listener.errors, testutil.DefaultTimeout, "decode error")
	var decodeError *DecodeError
	if !errors.As(err, &decodeError) {
		t.Errorf("error = %v, want *DecodeError", err)
	}
	if frame := testutil.RequireReceive(t, listener.frames, testutil.DefaultTimeout, "hello frame"); frame.Type != "hello" {
		t.Errorf("frame type = %q, want hello", frame.Type)
	}
}

func TestSocketSendAndTerminate(t *testing.T) {
	server := newTestServer(t)
	listener := newRecordingListener()
	socket := NewSocket(SocketConfig{Listener: listener})

	if err := socket.Send(context.Background(), map[string]any{"type": "ping"}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Send before Connect error = %v, want ErrNotConnected", err)
	}
	if err := socket.Connect(context.Background(), server.URL()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	conn := testutil.RequireReceive(t, server.accepted, testutil.DefaultTimeout, "accept")

	if err := socket.Send(context.Background(), map[string]any{"type": "ping", "id": 1}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if frame := testutil.RequireReceive(t, conn.received, testutil.DefaultTimeout, "ping"); frame["type"] != "ping" {
		t.Errorf("server received %v", frame)
	}

	socket.Terminate()
	socket.Terminate()
	closed := testutil.RequireReceive(t, listener.closes, testutil.DefaultTimeout, "close")
	if !errors.Is(closed.err, ErrTerminated) {
		t.Errorf("close error = %v, want ErrTerminated", closed.err)
	}
	testutil.RequireClosed(t, conn.closed, testutil.DefaultTimeout, "server side of terminated connection")
	if socket.Generation() != 0 {
		t.Errorf("Generation() = %d after Terminate, want 0", socket.Generation())
	}
}

func TestSocketTerminateFromCallback(t *testing.T) {
	server := newTestServer(t)
	listener := newRecordingListener()
	socket := NewSocket(SocketConfig{Listener: listener})
	listener.onFrame = func(frame Frame) {
		if frame.Type == "goodbye" {
			socket.Terminate()
		}
	}

	if err := socket.Connect(context.Background(), server.URL()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	conn := testutil.RequireReceive(t, server.accepted, testutil.DefaultTimeout, "accept")
	conn.send(map[string]any{"type": "goodbye"})

	closed := testutil.RequireReceive(t, listener.closes, testutil.DefaultTimeout, "close after terminate in callback")
	if !errors.Is(closed.err, ErrTerminated) {
		t.Errorf("close error = %v, want ErrTerminated", closed.err)
	}
}

func TestSocketConnectReplacesConnection(t *testing.T) {
	server := newTestServer(t)
	listener := newRecordingListener()
	socket := NewSocket(SocketConfig{Listener: listener})
	t.Cleanup(socket.Terminate)

	for i := 0; i < 2; i++ {
		if err := socket.Connect(context.Background(), server.URL()); err != nil {
			t.Fatalf("Connect %d failed: %v", i, err)
		}
	}
	first := testutil.RequireReceive(t, server.accepted, testutil.DefaultTimeout, "first accept")
	testutil.RequireReceive(t, server.accepted, testutil.DefaultTimeout, "second accept")
	testutil.RequireClosed(t, first.closed, testutil.DefaultTimeout, "first connection")

	closed := testutil.RequireReceive(t, listener.closes, testutil.DefaultTimeout, "close of first generation")
	if closed.generation != 1 {
		t.Errorf("closed generation = %d, want 1", closed.generation)
	}
	if socket.Generation() != 2 {
		t.Errorf("Generation() = %d, want 2", socket.Generation())
	}
}

func TestRedactURL(t *testing.T) {
	if got := redactURL("wss://rtm.example.test/websocket/abc?ticket=secret"); got != "wss://rtm.example.test/websocket/abc" {
		t.Errorf("redactURL = %q", got)
	}
}
