// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"maps"
	"sync"
)

// Team is the workspace the client is connected to. There is one per
// client.
type Team struct {
	id string

	mu          sync.RWMutex
	name        string
	domain      string
	emailDomain string
	icon        map[string]string
}

// TeamFromWire builds a Team from its wire shape.
func TeamFromWire(wire WireTeam) (*Team, error) {
	if wire.ID == "" {
		return nil, fmt.Errorf("model: team has no id")
	}
	team := &Team{id: wire.ID}
	team.apply(wire)
	return team, nil
}

// ID returns the team's immutable id.
func (t *Team) ID() string { return t.id }

// Apply replaces the team's attributes with those in wire.
func (t *Team) Apply(wire WireTeam) error {
	if wire.ID != t.id {
		return fmt.Errorf("model: cannot apply team %s to %s", wire.ID, t.id)
	}
	t.apply(wire)
	return nil
}

func (t *Team) apply(wire WireTeam) {
	icon := make(map[string]string, len(wire.Icon))
	for size, value := range wire.Icon {
		// Skip non-URL entries such as image_default.
		if url, ok := value.(string); ok {
			icon[size] = url
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.name = wire.Name
	t.domain = wire.Domain
	t.emailDomain = wire.EmailDomain
	t.icon = icon
}

func (t *Team) Name() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

// SetName records a team rename.
func (t *Team) SetName(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.name = name
}

func (t *Team) Domain() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.domain
}

// SetDomain records a domain change.
func (t *Team) SetDomain(domain string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.domain = domain
}

func (t *Team) EmailDomain() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.emailDomain
}

// Icon returns a copy of the icon URLs keyed by size name.
func (t *Team) Icon() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.icon)
}

// Wire converts the team back to its wire shape.
func (t *Team) Wire() WireTeam {
	t.mu.RLock()
	defer t.mu.RUnlock()
	icon := make(map[string]any, len(t.icon))
	for size, url := range t.icon {
		icon[size] = url
	}
	return WireTeam{
		ID:          t.id,
		Name:        t.name,
		Domain:      t.domain,
		EmailDomain: t.emailDomain,
		Icon:        icon,
	}
}
