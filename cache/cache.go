// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"sync"

	"github.com/bureau-foundation/slackline/lib/metrics"
	"github.com/bureau-foundation/slackline/model"
)

// DefaultMessageLimit is the per-conversation history bound used when
// Config.MessageLimit is zero.
const DefaultMessageLimit = 100

// Config configures a Cache.
type Config struct {
	// MessageLimit bounds each conversation's recent history. Zero
	// selects DefaultMessageLimit; a negative value keeps no history.
	MessageLimit int

	// Metrics receives entity counts. Nil disables reporting.
	Metrics *metrics.Collectors
}

// Cache is the set of stores making up the client's workspace view.
type Cache struct {
	Conversations *Store[*model.Conversation]
	Users         *Store[*model.User]

	messageLimit int

	mu   sync.RWMutex
	team *model.Team
	self *model.Self
}

// New returns an empty cache.
func New(config Config) *Cache {
	limit := config.MessageLimit
	if limit == 0 {
		limit = DefaultMessageLimit
	}
	cache := &Cache{
		Conversations: NewStore[*model.Conversation](),
		Users:         NewStore[*model.User](),
		messageLimit:  limit,
	}
	if config.Metrics != nil {
		collectors := config.Metrics
		cache.Conversations.onResize = func(count int) { collectors.SetCached("conversation", count) }
		cache.Users.onResize = func(count int) { collectors.SetCached("user", count) }
	}
	return cache
}

// MessageLimit returns the history bound given to new conversations.
func (c *Cache) MessageLimit() int { return c.messageLimit }

// Team returns the cached team, or nil before it is known.
func (c *Cache) Team() *model.Team {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.team
}

// SetTeam replaces the cached team.
func (c *Cache) SetTeam(team *model.Team) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.team = team
}

// Self returns the authenticated identity, or nil before it is known.
func (c *Cache) Self() *model.Self {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.self
}

// SetSelf replaces the authenticated identity.
func (c *Cache) SetSelf(self *model.Self) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.self = self
}

// PutUser stores a user built from wire, or applies wire to the cached
// user of the same id so existing references stay valid. It returns
// the cached user.
func (c *Cache) PutUser(wire model.WireUser) (*model.User, error) {
	if existing, ok := c.Users.Get(wire.ID); ok {
		if err := existing.Apply(wire); err != nil {
			return nil, err
		}
		return existing, nil
	}
	user, err := model.UserFromWire(wire)
	if err != nil {
		return nil, err
	}
	c.Users.Set(user.ID(), user)
	return user, nil
}

// PutConversation stores a conversation built from wire, or applies
// wire to the cached conversation of the same id. When wire carries
// member ids the membership is replaced by those that resolve to cached
// users; the ids that do not resolve are returned. A nil member list
// leaves the membership as it is.
func (c *Cache) PutConversation(wire model.WireConversation) (*model.Conversation, []string, error) {
	conversation, ok := c.Conversations.Get(wire.ID)
	if ok {
		if err := conversation.Apply(wire); err != nil {
			return nil, nil, err
		}
	} else {
		var err error
		conversation, err = model.ConversationFromWire(wire, c.messageLimit)
		if err != nil {
			return nil, nil, err
		}
		c.Conversations.Set(conversation.ID(), conversation)
	}
	if wire.Members == nil {
		return conversation, nil, nil
	}
	var missing []string
	members := make([]*model.User, 0, len(wire.Members))
	for _, id := range wire.Members {
		user, ok := c.Users.Get(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		members = append(members, user)
	}
	conversation.SetMembers(members)
	return conversation, missing, nil
}

// DropConversation removes a conversation from the cache and marks it
// deleted. It returns the dropped conversation.
func (c *Cache) DropConversation(conversationID string) (*model.Conversation, bool) {
	conversation, ok := c.Conversations.Get(conversationID)
	if !ok {
		return nil, false
	}
	conversation.MarkDeleted()
	c.Conversations.Delete(conversationID)
	return conversation, true
}
