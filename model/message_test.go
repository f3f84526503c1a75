// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
	"testing"
	"time"
)

func TestMessageFromWire(t *testing.T) {
	message, err := MessageFromWire("", WireMessage{
		Channel:  "C1",
		User:     "U1",
		Text:     "hello",
		TS:       "1700000000.000100",
		ThreadTS: "1699999999.000001",
		Edited:   &WireEdited{User: "U1", TS: "1700000001.000000"},
	})
	if err != nil {
		t.Fatalf("MessageFromWire failed: %v", err)
	}
	if message.ConversationID != "C1" {
		t.Errorf("ConversationID = %s, want C1 from the wire channel", message.ConversationID)
	}
	if !message.IsThreadReply() {
		t.Error("IsThreadReply() = false for a reply")
	}
	if message.Edited == nil || message.Edited.TS != "1700000001.000000" {
		t.Errorf("Edited = %+v", message.Edited)
	}
}

func TestMessageFromWireErrors(t *testing.T) {
	if _, err := MessageFromWire("C1", WireMessage{}); !errors.Is(err, ErrMissingTS) {
		t.Errorf("missing ts error = %v, want ErrMissingTS", err)
	}
	if _, err := MessageFromWire("", WireMessage{TS: "1.0"}); err == nil {
		t.Error("message without conversation accepted")
	}
}

func TestIsThreadReply(t *testing.T) {
	tests := []struct {
		name     string
		ts       string
		threadTS string
		want     bool
	}{
		{"top level", "1.0", "", false},
		{"thread parent", "1.0", "1.0", false},
		{"reply", "2.0", "1.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := &Message{TS: tt.ts, ThreadTS: tt.threadTS}
			if got := message.IsThreadReply(); got != tt.want {
				t.Errorf("IsThreadReply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTS(t *testing.T) {
	got, err := ParseTS("1700000000.000250")
	if err != nil {
		t.Fatalf("ParseTS failed: %v", err)
	}
	want := time.Unix(1700000000, 250*int64(time.Microsecond))
	if !got.Equal(want) {
		t.Errorf("ParseTS = %v, want %v", got, want)
	}

	if short, err := ParseTS("10.5"); err != nil || short.Nanosecond() != 500000000 {
		t.Errorf("ParseTS(10.5) = %v, %v", short, err)
	}
	if _, err := ParseTS("not-a-ts"); err == nil {
		t.Error("ParseTS accepted garbage")
	}
}

func TestCompareTS(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1700000001.000100", "1700000001.000100", 0},
		{"999999999.000001", "1700000000.000001", -1},
		{"1700000000.9", "1700000000.000100", 1},
		{"bogus", "1700000000.000100", 1},
	}
	for _, test := range tests {
		if got := CompareTS(test.a, test.b); got != test.want {
			t.Errorf("CompareTS(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}
