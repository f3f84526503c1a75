// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bureau-foundation/slackline/cache"
	"github.com/bureau-foundation/slackline/events"
	"github.com/bureau-foundation/slackline/lib/metrics"
	"github.com/bureau-foundation/slackline/model"
	"github.com/bureau-foundation/slackline/rtm"
)

// Fetcher loads entities the cache does not hold. *api.Client
// implements it.
type Fetcher interface {
	UserInfo(ctx context.Context, userID string) (*model.WireUser, error)
	ConversationInfo(ctx context.Context, conversationID string) (*model.WireConversation, error)
	ConversationMembers(ctx context.Context, conversationID string) ([]string, error)
}

// Decoder applies one frame to the cache and emits its domain events
// through the dispatcher.
type Decoder func(ctx context.Context, d *Dispatcher, frame rtm.Frame) error

// DecodeError reports a frame whose decoder failed or panicked.
type DecodeError struct {
	EventType string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("dispatch: %s: %v", e.EventType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Config configures a Dispatcher.
type Config struct {
	// Cache is updated by decoders. Required.
	Cache *cache.Cache

	// Bus receives domain events. Required.
	Bus *events.Bus

	// Fetcher resolves cache misses. Nil makes every miss an error.
	Fetcher Fetcher

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics may be nil.
	Metrics *metrics.Collectors
}

// Dispatcher routes frames to decoders.
type Dispatcher struct {
	cache   *cache.Cache
	bus     *events.Bus
	fetcher Fetcher
	logger  *slog.Logger
	metrics *metrics.Collectors

	// fetches collapses concurrent cache-miss fetches of one entity.
	fetches singleflight.Group

	mu       sync.RWMutex
	decoders map[string]Decoder
}

// New returns a dispatcher with the built-in decoders registered.
func New(config Config) (*Dispatcher, error) {
	if config.Cache == nil {
		return nil, fmt.Errorf("dispatch: cache is required")
	}
	if config.Bus == nil {
		return nil, fmt.Errorf("dispatch: event bus is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		cache:    config.Cache,
		bus:      config.Bus,
		fetcher:  config.Fetcher,
		logger:   logger.With("component", "dispatch"),
		metrics:  config.Metrics,
		decoders: make(map[string]Decoder),
	}
	registerBuiltins(d)
	return d, nil
}

// Register installs decoder for eventType, replacing any previous one.
// A nil decoder removes the registration.
func (d *Dispatcher) Register(eventType string, decoder Decoder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if decoder == nil {
		delete(d.decoders, eventType)
		return
	}
	d.decoders[eventType] = decoder
}

// Attach subscribes the dispatcher to the frames source re-emits as
// rtm.event and returns the unsubscribe function. Every frame is
// handled with ctx.
func (d *Dispatcher) Attach(ctx context.Context, source *events.Bus) func() {
	return source.Subscribe(rtm.EventFrame, func(event events.Event) {
		frame, ok := event.Payload.(rtm.Frame)
		if !ok {
			return
		}
		d.Handle(ctx, frame)
	})
}

// Handle decodes one frame. Errors are emitted, never returned.
func (d *Dispatcher) Handle(ctx context.Context, frame rtm.Frame) {
	// Bare acknowledgements belong to the request that sent the frame.
	if frame.Type == "" {
		return
	}
	d.mu.RLock()
	decoder, ok := d.decoders[frame.Type]
	d.mu.RUnlock()
	if !ok {
		d.bus.Emit(GenericPrefix+frame.Type, frame)
		return
	}
	if err := d.run(ctx, decoder, frame); err != nil {
		d.metrics.DispatchFailed(frame.Type)
		d.logger.Warn("dropping undecodable event", "type", frame.Type, "error", err)
		d.bus.Emit(EventError, &DecodeError{EventType: frame.Type, Err: err})
	}
}

func (d *Dispatcher) run(ctx context.Context, decoder Decoder, frame rtm.Frame) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			d.logger.Error("event decoder panicked", "type", frame.Type, "panic", recovered, "stack", string(debug.Stack()))
			err = fmt.Errorf("decoder panicked: %v", recovered)
		}
	}()
	return decoder(ctx, d, frame)
}

// Cache returns the cache decoders update.
func (d *Dispatcher) Cache() *cache.Cache { return d.cache }

// Emit publishes a domain event. Decoders call it once their cache
// updates are complete.
func (d *Dispatcher) Emit(name string, payload any) {
	d.bus.Emit(name, payload)
}
