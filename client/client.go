// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/bureau-foundation/slackline/api"
	"github.com/bureau-foundation/slackline/cache"
	"github.com/bureau-foundation/slackline/dispatch"
	"github.com/bureau-foundation/slackline/events"
	"github.com/bureau-foundation/slackline/lib/clock"
	"github.com/bureau-foundation/slackline/model"
	"github.com/bureau-foundation/slackline/rtm"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("client: closed")

// Client is one workspace session. Safe for concurrent use.
type Client struct {
	id           string
	logger       *slog.Logger
	clock        clock.Clock
	snapshotPath string
	compression  cache.Compression

	api        *api.Client
	bus        *events.Bus
	cache      *cache.Cache
	dispatcher *dispatch.Dispatcher
	manager    *rtm.Manager

	// lifetime bounds the fetches decoders make on cache misses.
	lifetime context.Context
	cancel   context.CancelFunc

	mu            sync.Mutex
	started       bool
	closed        bool
	subscriptions []func()
}

// New wires a client. Nothing touches the network until Start.
func New(config Config) (*Client, error) {
	id := uuid.NewString()
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("client_id", id)
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	apiConfig := config.API
	apiConfig.Logger = logger
	apiConfig.Metrics = config.Metrics
	apiClient, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	bus := events.NewBus()
	entities := cache.New(cache.Config{MessageLimit: config.MessageLimit, Metrics: config.Metrics})
	dispatcher, err := dispatch.New(dispatch.Config{
		Cache:   entities,
		Bus:     bus,
		Fetcher: apiClient,
		Logger:  logger,
		Metrics: config.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	manager, err := rtm.NewManager(rtm.ManagerConfig{
		Options:     config.RTM,
		Requester:   apiClient.ConnectRTM,
		Bus:         bus,
		Clock:       clk,
		DialOptions: config.DialOptions,
		Logger:      logger,
		Metrics:     config.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	lifetime, cancel := context.WithCancel(context.Background())
	return &Client{
		id:           id,
		logger:       logger,
		clock:        clk,
		snapshotPath: config.SnapshotPath,
		compression:  config.Compression,
		api:          apiClient,
		bus:          bus,
		cache:        entities,
		dispatcher:   dispatcher,
		manager:      manager,
		lifetime:     lifetime,
		cancel:       cancel,
	}, nil
}

// ID returns the client's instance id, which also tags its log lines.
func (c *Client) ID() string { return c.id }

// Start warms the cache from the snapshot if one is configured,
// populates it from the API, and opens the RTM session. It returns
// once the socket is open. Start may be called once.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return fmt.Errorf("client: already started")
	}
	c.started = true
	c.mu.Unlock()

	c.warmStart()
	if err := c.populate(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.subscriptions = append(c.subscriptions,
		c.dispatcher.Attach(c.lifetime, c.bus),
		c.bus.Subscribe(rtm.EventAuthenticated, c.authenticated),
	)
	c.mu.Unlock()

	if err := c.manager.Connect(ctx, ""); err != nil {
		return fmt.Errorf("client: connecting: %w", err)
	}
	c.logger.Info("client started",
		"users", c.cache.Users.Len(),
		"conversations", c.cache.Conversations.Len(),
	)
	return nil
}

// warmStart restores the snapshot, if any. A missing or unreadable
// snapshot only costs the warm start.
func (c *Client) warmStart() {
	if c.snapshotPath == "" {
		return
	}
	snapshot, err := cache.LoadFile(c.snapshotPath)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		c.logger.Warn("ignoring unreadable snapshot", "path", c.snapshotPath, "error", err)
		return
	}
	if err := snapshot.Restore(c.cache); err != nil {
		c.logger.Warn("snapshot restore incomplete", "path", c.snapshotPath, "error", err)
		return
	}
	c.logger.Debug("restored snapshot", "path", c.snapshotPath, "created", snapshot.Created)
}

// populate loads the identity, team, users, conversations, and DND
// states in that order, so every conversation's members are cached
// before the conversation is. Users and conversations the API no
// longer lists are dropped, along with memberships restored from a
// snapshot.
func (c *Client) populate(ctx context.Context) error {
	auth, err := c.api.AuthTest(ctx)
	if err != nil {
		return fmt.Errorf("client: authenticating: %w", err)
	}
	self := auth.Self()
	c.cache.SetSelf(&self)

	wireTeam, err := c.api.TeamInfo(ctx)
	if err != nil {
		return fmt.Errorf("client: loading team: %w", err)
	}
	if team := c.cache.Team(); team != nil && team.ID() == wireTeam.ID {
		if err := team.Apply(*wireTeam); err != nil {
			return fmt.Errorf("client: loading team: %w", err)
		}
	} else {
		team, err := model.TeamFromWire(*wireTeam)
		if err != nil {
			return fmt.Errorf("client: loading team: %w", err)
		}
		c.cache.SetTeam(team)
	}

	users, err := c.api.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("client: loading users: %w", err)
	}
	listedUsers := make(map[string]bool, len(users))
	for _, wire := range users {
		if _, err := c.cache.PutUser(wire); err != nil {
			return fmt.Errorf("client: loading users: %w", err)
		}
		listedUsers[wire.ID] = true
	}
	for _, id := range c.cache.Users.IDs() {
		if !listedUsers[id] {
			c.cache.Users.Delete(id)
			c.logger.Debug("dropped unlisted user", "user", id)
		}
	}

	conversations, err := c.api.ListConversations(ctx, nil)
	if err != nil {
		return fmt.Errorf("client: loading conversations: %w", err)
	}
	listedConversations := make(map[string]bool, len(conversations))
	for _, wire := range conversations {
		listedConversations[wire.ID] = true
		if !wire.IsIM && len(wire.Members) == 0 {
			members, err := c.api.ConversationMembers(ctx, wire.ID)
			if err != nil {
				return fmt.Errorf("client: loading members of %s: %w", wire.ID, err)
			}
			wire.Members = members
		}
		if wire.Members == nil {
			wire.Members = []string{}
		}
		_, missing, err := c.cache.PutConversation(wire)
		if err != nil {
			return fmt.Errorf("client: loading conversations: %w", err)
		}
		if len(missing) > 0 {
			c.logger.Debug("conversation members not in user list", "conversation", wire.ID, "missing", missing)
		}
	}
	for _, id := range c.cache.Conversations.IDs() {
		if !listedConversations[id] {
			c.cache.DropConversation(id)
			c.logger.Debug("dropped unlisted conversation", "conversation", id)
		}
	}

	dnd, err := c.api.DNDTeamInfo(ctx, nil)
	switch {
	case api.IsRemoteError(err, api.CodeMissingScope):
		c.logger.Info("token cannot read DND states", "error", err)
	case err != nil:
		return fmt.Errorf("client: loading DND states: %w", err)
	}
	for userID, status := range dnd {
		if user, ok := c.cache.Users.Get(userID); ok {
			user.SetDND(status)
		}
	}
	return nil
}

// authenticated refreshes the identity and team from each successful
// URL request.
func (c *Client) authenticated(event events.Event) {
	response, ok := event.Payload.(*api.ConnectResponse)
	if !ok {
		return
	}
	if response.Self.ID != "" {
		self := response.Self
		if self.TeamID == "" {
			self.TeamID = response.Team.ID
		}
		c.cache.SetSelf(&self)
	}
	team := c.cache.Team()
	if team == nil || team.ID() != response.Team.ID {
		return
	}
	if response.Team.Name != "" {
		team.SetName(response.Team.Name)
	}
	if response.Team.Domain != "" {
		team.SetDomain(response.Team.Domain)
	}
}

// On subscribes handler to events matching pattern and returns the
// unsubscribe function. See events.Bus for pattern rules.
func (c *Client) On(pattern string, handler events.Handler) func() {
	return c.bus.Subscribe(pattern, handler)
}

// State returns the RTM connection state.
func (c *Client) State() rtm.State { return c.manager.State() }

// API returns the HTTP transport for methods the client does not wrap.
func (c *Client) API() *api.Client { return c.api }

// Cache returns the entity cache.
func (c *Client) Cache() *cache.Cache { return c.cache }

// Conversation returns the cached conversation with id.
func (c *Client) Conversation(id string) (*model.Conversation, bool) {
	return c.cache.Conversations.Get(id)
}

// User returns the cached user with id.
func (c *Client) User(id string) (*model.User, bool) {
	return c.cache.Users.Get(id)
}

// Team returns the workspace, or nil before Start.
func (c *Client) Team() *model.Team { return c.cache.Team() }

// Self returns the authenticated identity, or nil before Start.
func (c *Client) Self() *model.Self { return c.cache.Self() }

// SendMessage sends text over the RTM socket and waits for the server
// to acknowledge it.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (*rtm.Ack, error) {
	return c.manager.Request(ctx, map[string]any{
		"type":    "message",
		"channel": conversationID,
		"text":    text,
	})
}

// PostMessage posts text through the HTTP API, which supports threads
// and formatting the socket does not.
func (c *Client) PostMessage(ctx context.Context, conversationID, text string, options api.PostOptions) (*api.MessageResponse, error) {
	return c.api.PostMessage(ctx, conversationID, text, options)
}

// UpdateMessage replaces the text of the message at ts.
func (c *Client) UpdateMessage(ctx context.Context, conversationID, ts, text string) (*api.MessageResponse, error) {
	return c.api.UpdateMessage(ctx, conversationID, ts, text)
}

// DeleteMessage deletes the message at ts.
func (c *Client) DeleteMessage(ctx context.Context, conversationID, ts string) error {
	return c.api.DeleteMessage(ctx, conversationID, ts)
}

// SubscribePresence asks the server for presence_change events about
// userIDs. Each call replaces the previous subscription.
func (c *Client) SubscribePresence(ctx context.Context, userIDs []string) error {
	ids := slices.Clone(userIDs)
	if ids == nil {
		ids = []string{}
	}
	_, err := c.manager.Send(ctx, map[string]any{"type": "presence_sub", "ids": ids})
	return err
}

// History returns the conversation's cached messages, oldest first,
// loading them from the API when none are cached.
func (c *Client) History(ctx context.Context, conversationID string) ([]*model.Message, error) {
	conversation, err := c.dispatcher.Conversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	limit := conversation.MessageLimit()
	if limit <= 0 || len(conversation.Messages()) > 0 {
		return conversation.Messages(), nil
	}
	wires, err := c.api.ConversationHistory(ctx, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("client: loading history of %s: %w", conversationID, err)
	}
	messages := make([]*model.Message, 0, len(wires))
	for _, wire := range wires {
		message, err := model.MessageFromWire(conversationID, wire)
		if err != nil {
			return nil, fmt.Errorf("client: loading history of %s: %w", conversationID, err)
		}
		messages = append(messages, message)
	}
	// Live messages may have been cached while the page loaded.
	if err := conversation.MergeHistory(messages); err != nil {
		return nil, fmt.Errorf("client: loading history of %s: %w", conversationID, err)
	}
	return conversation.Messages(), nil
}

// Close ends the session: the socket is dropped, pending requests fail,
// the cache is written to the snapshot path, and the token is
// released. Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	started := c.started
	subscriptions := c.subscriptions
	c.subscriptions = nil
	c.mu.Unlock()

	c.cancel()
	c.manager.Destroy()
	for _, unsubscribe := range subscriptions {
		unsubscribe()
	}

	var errs []error
	if started && c.snapshotPath != "" && c.cache.Self() != nil {
		options := cache.SnapshotOptions{Compression: c.compression, Now: c.clock.Now()}
		if err := cache.SaveFile(c.snapshotPath, c.cache, options); err != nil {
			errs = append(errs, fmt.Errorf("client: saving snapshot: %w", err))
		}
	}
	if err := c.api.Close(); err != nil {
		errs = append(errs, fmt.Errorf("client: releasing token: %w", err))
	}
	return errors.Join(errs...)
}
