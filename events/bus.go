// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"strings"
	"sync"
)

// Wildcard is the pattern that matches every event.
const Wildcard = "*"

// Event is one emitted notification.
type Event struct {
	Name    string
	Payload any
}

// Handler receives matching events.
type Handler func(Event)

type subscription struct {
	id      uint64
	pattern string
	handler Handler
}

// Bus fans events out to subscribers. The zero value is not usable;
// call NewBus.
type Bus struct {
	mu            sync.Mutex
	nextID        uint64
	subscriptions []subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler for events matching pattern and returns
// a function that removes the subscription. The returned function is
// idempotent.
func (b *Bus) Subscribe(pattern string, handler Handler) (unsubscribe func()) {
	if handler == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subscriptions = append(b.subscriptions, subscription{id: id, pattern: pattern, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for index, sub := range b.subscriptions {
		if sub.id == id {
			// Copy so a snapshot held by an in-progress Emit is unaffected.
			next := make([]subscription, 0, len(b.subscriptions)-1)
			next = append(next, b.subscriptions[:index]...)
			b.subscriptions = append(next, b.subscriptions[index+1:]...)
			return
		}
	}
}

// Emit delivers an event to every matching subscriber and returns the
// number of handlers that ran.
func (b *Bus) Emit(name string, payload any) int {
	b.mu.Lock()
	snapshot := b.subscriptions
	b.mu.Unlock()

	event := Event{Name: name, Payload: payload}
	delivered := 0
	for _, sub := range snapshot {
		if Matches(sub.pattern, name) {
			sub.handler(event)
			delivered++
		}
	}
	return delivered
}

// Len reports the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscriptions)
}

// Matches reports whether pattern selects the event name.
func Matches(pattern, name string) bool {
	if pattern == Wildcard || pattern == name {
		return true
	}
	return strings.HasPrefix(name, pattern) && len(name) > len(pattern) && name[len(pattern)] == '.'
}
