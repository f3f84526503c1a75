// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"
)

// Descriptor is a conversation topic or purpose.
type Descriptor struct {
	Value   string
	Creator string
	LastSet time.Time
}

func descriptorFromWire(wire WireDescriptor) Descriptor {
	return Descriptor{Value: wire.Value, Creator: wire.Creator, LastSet: unixTime(wire.LastSet)}
}

func (d Descriptor) wire() WireDescriptor {
	return WireDescriptor{Value: d.Value, Creator: d.Creator, LastSet: unixSeconds(d.LastSet)}
}

// Conversation is a channel-like entity: public channel, private group,
// IM, or multi-person IM.
//
// Recent messages are kept in arrival order and trimmed from the front
// once the count exceeds the message limit. A limit of zero or less
// keeps no history.
type Conversation struct {
	id string

	mu           sync.RWMutex
	name         string
	isChannel    bool
	isGroup      bool
	isIM         bool
	isMPIM       bool
	isPrivate    bool
	isArchived   bool
	isDeleted    bool
	isMember     bool
	user         string
	created      time.Time
	creator      string
	topic        Descriptor
	purpose      Descriptor
	members      map[string]*User
	messages     []*Message
	messageLimit int
}

// NewConversation returns an empty conversation.
func NewConversation(id string, messageLimit int) *Conversation {
	return &Conversation{
		id:           id,
		members:      make(map[string]*User),
		messageLimit: messageLimit,
	}
}

// ConversationFromWire builds a Conversation from its wire shape.
// Membership is not populated: member ids have to be resolved to
// cached users by the caller.
func ConversationFromWire(wire WireConversation, messageLimit int) (*Conversation, error) {
	if wire.ID == "" {
		return nil, fmt.Errorf("model: conversation has no id")
	}
	conversation := NewConversation(wire.ID, messageLimit)
	conversation.apply(wire)
	return conversation, nil
}

// ID returns the conversation's immutable id.
func (c *Conversation) ID() string { return c.id }

// Apply replaces the conversation's attributes with those in wire.
// Membership and message history are left untouched. It fails if wire
// names another conversation.
func (c *Conversation) Apply(wire WireConversation) error {
	if wire.ID != c.id {
		return fmt.Errorf("model: cannot apply conversation %s to %s", wire.ID, c.id)
	}
	c.apply(wire)
	return nil
}

func (c *Conversation) apply(wire WireConversation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = wire.Name
	c.isChannel = wire.IsChannel
	c.isGroup = wire.IsGroup
	c.isIM = wire.IsIM
	c.isMPIM = wire.IsMPIM
	c.isPrivate = wire.IsPrivate
	c.isArchived = wire.IsArchived
	c.isMember = wire.IsMember
	c.user = wire.User
	c.created = unixTime(wire.Created)
	c.creator = wire.Creator
	c.topic = descriptorFromWire(wire.Topic)
	c.purpose = descriptorFromWire(wire.Purpose)
}

func (c *Conversation) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// SetName records a rename.
func (c *Conversation) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// IsChannel reports a public channel.
func (c *Conversation) IsChannel() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isChannel
}

// IsGroup reports a private channel.
func (c *Conversation) IsGroup() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isGroup
}

// IsIM reports a direct message with one other user.
func (c *Conversation) IsIM() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isIM
}

// IsMPIM reports a multi-person direct message.
func (c *Conversation) IsMPIM() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isMPIM
}

func (c *Conversation) IsPrivate() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isPrivate
}

// User returns the counterpart of an IM, or "".
func (c *Conversation) User() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

func (c *Conversation) Created() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.created
}

func (c *Conversation) Creator() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creator
}

func (c *Conversation) IsArchived() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isArchived
}

// SetArchived records an archive or unarchive.
func (c *Conversation) SetArchived(archived bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isArchived = archived
}

func (c *Conversation) IsDeleted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isDeleted
}

// MarkDeleted flags the conversation as deleted. Holders of the pointer
// see the flag after the cache has dropped its entry.
func (c *Conversation) MarkDeleted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isDeleted = true
}

// IsMember reports whether the authenticated user belongs to the
// conversation.
func (c *Conversation) IsMember() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isMember
}

func (c *Conversation) Topic() Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topic
}

func (c *Conversation) SetTopic(topic Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topic = topic
}

func (c *Conversation) Purpose() Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.purpose
}

func (c *Conversation) SetPurpose(purpose Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purpose = purpose
}

// AddMember adds user to the membership set. It returns false if a
// user with that id was already a member.
func (c *Conversation) AddMember(user *User) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.members[user.ID()]; exists {
		return false
	}
	c.members[user.ID()] = user
	return true
}

// SetMembers replaces the membership set with users.
func (c *Conversation) SetMembers(users []*User) {
	members := make(map[string]*User, len(users))
	for _, user := range users {
		members[user.ID()] = user
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.members = members
}

// RemoveMember drops userID from the membership set. It returns false
// if the user was not a member.
func (c *Conversation) RemoveMember(userID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.members[userID]; !exists {
		return false
	}
	delete(c.members, userID)
	return true
}

// HasMember reports whether userID is a member.
func (c *Conversation) HasMember(userID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.members[userID]
	return exists
}

// Members returns the members sorted by id.
func (c *Conversation) Members() []*User {
	c.mu.RLock()
	members := make([]*User, 0, len(c.members))
	for _, user := range c.members {
		members = append(members, user)
	}
	c.mu.RUnlock()
	sort.Slice(members, func(i, j int) bool { return members[i].ID() < members[j].ID() })
	return members
}

// MemberIDs returns the member ids sorted.
func (c *Conversation) MemberIDs() []string {
	c.mu.RLock()
	ids := make([]string, 0, len(c.members))
	for id := range c.members {
		ids = append(ids, id)
	}
	c.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// MessageLimit returns the history bound.
func (c *Conversation) MessageLimit() int { return c.messageLimit }

// AppendMessage adds message to the recent history, evicting the oldest
// entries beyond the limit.
func (c *Conversation) AppendMessage(message *Message) error {
	if message.ConversationID != c.id {
		return fmt.Errorf("model: message %s belongs to %s, not %s", message.TS, message.ConversationID, c.id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.messageLimit <= 0 {
		return nil
	}
	c.messages = append(c.messages, message)
	if overflow := len(c.messages) - c.messageLimit; overflow > 0 {
		// Copy down so the evicted pointers are released.
		kept := copy(c.messages, c.messages[overflow:])
		clear(c.messages[kept:])
		c.messages = c.messages[:kept]
	}
	return nil
}

// ReplaceMessage swaps the cached message with the same TS for
// message. It returns false if no such message is cached.
func (c *Conversation) ReplaceMessage(message *Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for index, existing := range c.messages {
		if existing.TS == message.TS {
			c.messages[index] = message
			return true
		}
	}
	return false
}

// RemoveMessage drops the cached message with the given TS. It returns
// false if no such message is cached.
func (c *Conversation) RemoveMessage(ts string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for index, existing := range c.messages {
		if existing.TS == ts {
			c.messages = slices.Delete(c.messages, index, index+1)
			return true
		}
	}
	return false
}

// MergeHistory adds messages loaded outside the event stream to the
// recent history. A message whose TS is already cached keeps the cached
// version. The result is ordered by TS and holds the newest entries
// within the limit.
func (c *Conversation) MergeHistory(messages []*Message) error {
	for _, message := range messages {
		if message.ConversationID != c.id {
			return fmt.Errorf("model: message %s belongs to %s, not %s", message.TS, message.ConversationID, c.id)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.messageLimit <= 0 {
		return nil
	}
	merged := slices.Clone(c.messages)
	for _, message := range messages {
		cached := slices.ContainsFunc(merged, func(existing *Message) bool { return existing.TS == message.TS })
		if !cached {
			merged = append(merged, message)
		}
	}
	slices.SortStableFunc(merged, func(a, b *Message) int { return CompareTS(a.TS, b.TS) })
	if overflow := len(merged) - c.messageLimit; overflow > 0 {
		merged = slices.Delete(merged, 0, overflow)
	}
	c.messages = merged
	return nil
}

// Messages returns the cached history, oldest first.
func (c *Conversation) Messages() []*Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Message(nil), c.messages...)
}

// Wire converts the conversation back to its wire shape, including
// member ids.
func (c *Conversation) Wire() WireConversation {
	members := c.MemberIDs()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return WireConversation{
		ID:         c.id,
		Name:       c.name,
		IsChannel:  c.isChannel,
		IsGroup:    c.isGroup,
		IsIM:       c.isIM,
		IsMPIM:     c.isMPIM,
		IsPrivate:  c.isPrivate,
		IsArchived: c.isArchived,
		IsMember:   c.isMember,
		User:       c.user,
		Created:    unixSeconds(c.created),
		Creator:    c.creator,
		Topic:      c.topic.wire(),
		Purpose:    c.purpose.wire(),
		Members:    members,
	}
}
