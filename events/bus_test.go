// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"reflect"
	"testing"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"message", "message", true},
		{"message", "message.subtype.bot_message", true},
		{"message.subtype", "message.subtype.bot_message", true},
		{"message", "messages", false},
		{"message.subtype.bot", "message.subtype.bot_message", false},
		{"*", "rtm.open", true},
		{"rtm.open", "rtm", false},
		{"", "rtm", false},
	}
	for _, test := range tests {
		if got := Matches(test.pattern, test.name); got != test.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", test.pattern, test.name, got, test.want)
		}
	}
}

func TestEmitOrderAndPayload(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.Subscribe("*", func(event Event) { order = append(order, "all:"+event.Name) })
	bus.Subscribe("team", func(event Event) { order = append(order, "team:"+event.Payload.(string)) })
	bus.Subscribe("team.memberJoin", func(event Event) { order = append(order, "join") })
	bus.Subscribe("user", func(event Event) { order = append(order, "user") })

	if delivered := bus.Emit("team.memberJoin", "U1"); delivered != 3 {
		t.Errorf("Emit delivered to %d handlers, want 3", delivered)
	}
	want := []string{"all:team.memberJoin", "team:U1", "join"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()
	count := 0
	unsubscribe := bus.Subscribe("rtm", func(Event) { count++ })

	bus.Emit("rtm.open", nil)
	unsubscribe()
	unsubscribe()
	bus.Emit("rtm.open", nil)

	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
	if bus.Len() != 0 {
		t.Errorf("Len() = %d after unsubscribe, want 0", bus.Len())
	}
}

func TestSubscribeDuringEmit(t *testing.T) {
	bus := NewBus()
	late := 0
	bus.Subscribe("rtm", func(Event) {
		bus.Subscribe("rtm", func(Event) { late++ })
	})

	bus.Emit("rtm.open", nil)
	if late != 0 {
		t.Errorf("handler added during Emit ran in the same Emit")
	}
	bus.Emit("rtm.open", nil)
	if late != 1 {
		t.Errorf("late handler ran %d times, want 1", late)
	}
}

func TestUnsubscribeDuringEmit(t *testing.T) {
	bus := NewBus()
	var second int
	var unsubscribeSecond func()
	bus.Subscribe("x", func(Event) { unsubscribeSecond() })
	unsubscribeSecond = bus.Subscribe("x", func(Event) { second++ })

	// The in-flight Emit keeps its snapshot.
	bus.Emit("x", nil)
	bus.Emit("x", nil)
	if second != 1 {
		t.Errorf("second handler ran %d times, want 1", second)
	}
}

func TestNilHandler(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("x", nil)()
	if bus.Len() != 0 {
		t.Errorf("nil handler registered")
	}
}
