// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"sync"
	"time"
)

// User is a workspace member.
type User struct {
	id string

	mu          sync.RWMutex
	teamID      string
	name        string
	realName    string
	displayName string
	email       string
	timeZone    string
	statusText  string
	isBot       bool
	isAdmin     bool
	isOwner     bool
	deleted     bool
	presence    string
	dnd         *DND
}

// NewUser returns a user with only its id set.
func NewUser(id string) *User {
	return &User{id: id}
}

// UserFromWire builds a User from its wire shape.
func UserFromWire(wire WireUser) (*User, error) {
	if wire.ID == "" {
		return nil, fmt.Errorf("model: user has no id")
	}
	user := NewUser(wire.ID)
	user.apply(wire)
	return user, nil
}

// ID returns the user's immutable id.
func (u *User) ID() string { return u.id }

// Apply replaces the user's profile fields with those in wire. The
// DND record is left untouched. It fails if wire names another user.
func (u *User) Apply(wire WireUser) error {
	if wire.ID != u.id {
		return fmt.Errorf("model: cannot apply user %s to %s", wire.ID, u.id)
	}
	u.apply(wire)
	return nil
}

func (u *User) apply(wire WireUser) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.teamID = wire.TeamID
	u.name = wire.Name
	u.realName = wire.RealName
	if u.realName == "" {
		u.realName = wire.Profile.RealName
	}
	u.displayName = wire.Profile.DisplayName
	u.email = wire.Profile.Email
	u.timeZone = wire.TimeZone
	u.statusText = wire.Profile.StatusText
	u.isBot = wire.IsBot
	u.isAdmin = wire.IsAdmin
	u.isOwner = wire.IsOwner
	u.deleted = wire.Deleted
	if wire.Presence != "" {
		u.presence = wire.Presence
	}
}

func (u *User) Name() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.name
}

func (u *User) RealName() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.realName
}

func (u *User) DisplayName() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.displayName
}

func (u *User) Email() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.email
}

func (u *User) TimeZone() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.timeZone
}

func (u *User) IsBot() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.isBot
}

func (u *User) IsAdmin() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.isAdmin
}

func (u *User) IsOwner() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.isOwner
}

// Deleted reports whether the account is deactivated.
func (u *User) Deleted() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.deleted
}

// Presence is "active", "away", or empty when unknown.
func (u *User) Presence() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.presence
}

// SetPresence records a presence change.
func (u *User) SetPresence(presence string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.presence = presence
}

// DND returns the user's current do-not-disturb record, or nil if none
// has been seen.
func (u *User) DND() *DND {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.dnd
}

// SetDND replaces the user's DND record with a new one built from wire
// and returns it.
func (u *User) SetDND(wire WireDND) *DND {
	dnd := &DND{
		user:          u,
		Enabled:       wire.Enabled,
		NextStart:     unixTime(wire.NextStart),
		NextEnd:       unixTime(wire.NextEnd),
		SnoozeEnabled: wire.SnoozeEnabled,
		SnoozeEnd:     unixTime(wire.SnoozeEndTime),
	}
	u.mu.Lock()
	u.dnd = dnd
	u.mu.Unlock()
	return dnd
}

// Wire converts the user back to its wire shape.
func (u *User) Wire() WireUser {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return WireUser{
		ID:       u.id,
		TeamID:   u.teamID,
		Name:     u.name,
		Deleted:  u.deleted,
		RealName: u.realName,
		TimeZone: u.timeZone,
		IsBot:    u.isBot,
		IsAdmin:  u.isAdmin,
		IsOwner:  u.isOwner,
		Presence: u.presence,
		Profile: WireProfile{
			RealName:    u.realName,
			DisplayName: u.displayName,
			Email:       u.email,
			StatusText:  u.statusText,
		},
	}
}

// DND is a user's do-not-disturb status. A DND value is never mutated;
// a change produces a new value through [User.SetDND].
type DND struct {
	user *User

	Enabled       bool
	NextStart     time.Time
	NextEnd       time.Time
	SnoozeEnabled bool
	SnoozeEnd     time.Time
}

// User returns the user this record belongs to.
func (d *DND) User() *User { return d.user }

// Active reports whether notifications are suppressed at now, either
// by a manual snooze or by the scheduled window.
func (d *DND) Active(now time.Time) bool {
	if d.SnoozeEnabled && now.Before(d.SnoozeEnd) {
		return true
	}
	if !d.Enabled || d.NextStart.IsZero() || d.NextEnd.IsZero() {
		return false
	}
	return !now.Before(d.NextStart) && now.Before(d.NextEnd)
}

// Wire converts the record back to its wire shape.
func (d *DND) Wire() WireDND {
	return WireDND{
		Enabled:       d.Enabled,
		NextStart:     unixSeconds(d.NextStart),
		NextEnd:       unixSeconds(d.NextEnd),
		SnoozeEnabled: d.SnoozeEnabled,
		SnoozeEndTime: unixSeconds(d.SnoozeEnd),
	}
}
