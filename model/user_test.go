// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"testing"
	"time"
)

func TestUserFromWire(t *testing.T) {
	user, err := UserFromWire(WireUser{
		ID:       "U1",
		Name:     "ada",
		TimeZone: "Europe/London",
		IsAdmin:  true,
		Profile:  WireProfile{RealName: "Ada Lovelace", DisplayName: "ada", Email: "ada@example.test"},
	})
	if err != nil {
		t.Fatalf("UserFromWire failed: %v", err)
	}
	if user.ID() != "U1" || user.Name() != "ada" || user.RealName() != "Ada Lovelace" {
		t.Errorf("unexpected user: id=%s name=%s real=%s", user.ID(), user.Name(), user.RealName())
	}
	if !user.IsAdmin() || user.IsBot() || user.Email() != "ada@example.test" {
		t.Error("flags or email not mapped")
	}

	if _, err := UserFromWire(WireUser{Name: "nobody"}); err == nil {
		t.Error("UserFromWire without id succeeded")
	}
}

func TestUserApplyKeepsDNDAndPresence(t *testing.T) {
	user := NewUser("U1")
	user.SetPresence("active")
	dnd := user.SetDND(WireDND{Enabled: true})

	if err := user.Apply(WireUser{ID: "U1", Name: "renamed"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if user.Name() != "renamed" {
		t.Errorf("Name() = %s, want renamed", user.Name())
	}
	if user.Presence() != "active" {
		t.Errorf("Presence() = %q, want active to survive an update without presence", user.Presence())
	}
	if user.DND() != dnd {
		t.Error("Apply replaced the DND record")
	}
	if err := user.Apply(WireUser{ID: "U2"}); err == nil {
		t.Error("Apply of another user succeeded")
	}
}

func TestDNDBackReferenceAndReplacement(t *testing.T) {
	user := NewUser("U1")
	first := user.SetDND(WireDND{Enabled: true, NextStart: 100, NextEnd: 200})
	if first.User() != user {
		t.Fatal("DND.User() does not point back at the owning user")
	}

	second := user.SetDND(WireDND{SnoozeEnabled: true, SnoozeEndTime: 500})
	if second == first {
		t.Fatal("SetDND mutated the existing record")
	}
	if user.DND() != second {
		t.Error("User.DND() is not the latest record")
	}
	if !first.Enabled || first.SnoozeEnabled {
		t.Error("the first record changed after replacement")
	}
}

func TestDNDActive(t *testing.T) {
	scheduled := (&User{}).SetDND(WireDND{Enabled: true, NextStart: 100, NextEnd: 200})
	snoozed := (&User{}).SetDND(WireDND{SnoozeEnabled: true, SnoozeEndTime: 50})

	tests := []struct {
		name string
		dnd  *DND
		at   int64
		want bool
	}{
		{"before window", scheduled, 99, false},
		{"window start", scheduled, 100, true},
		{"window end", scheduled, 200, false},
		{"snoozing", snoozed, 10, true},
		{"snooze over", snoozed, 50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dnd.Active(time.Unix(tt.at, 0)); got != tt.want {
				t.Errorf("Active(%d) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestUserWireRoundTrip(t *testing.T) {
	original := WireUser{
		ID:       "U1",
		Name:     "ada",
		RealName: "Ada Lovelace",
		IsOwner:  true,
		Presence: "away",
		Profile:  WireProfile{RealName: "Ada Lovelace", DisplayName: "ada", Email: "ada@example.test"},
	}
	user, err := UserFromWire(original)
	if err != nil {
		t.Fatalf("UserFromWire failed: %v", err)
	}
	restored, err := UserFromWire(user.Wire())
	if err != nil {
		t.Fatalf("UserFromWire(Wire()) failed: %v", err)
	}
	if restored.Wire() != user.Wire() {
		t.Errorf("round trip changed the user:\n got %+v\nwant %+v", restored.Wire(), user.Wire())
	}
}
