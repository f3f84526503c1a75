// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/slackline/model"
)

// ErrNoFetcher is returned for a cache miss when the dispatcher has no
// Fetcher.
var ErrNoFetcher = errors.New("dispatch: entity not cached and no fetcher configured")

// User returns the cached user, fetching and caching it on a miss.
// Concurrent misses for one id share a single fetch.
func (d *Dispatcher) User(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("event names no user")
	}
	if user, ok := d.cache.Users.Get(userID); ok {
		return user, nil
	}
	if d.fetcher == nil {
		return nil, fmt.Errorf("resolving user %s: %w", userID, ErrNoFetcher)
	}
	result, err, _ := d.fetches.Do("user:"+userID, func() (any, error) {
		return d.fetchUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.User), nil
}

func (d *Dispatcher) fetchUser(ctx context.Context, userID string) (*model.User, error) {
	if user, ok := d.cache.Users.Get(userID); ok {
		return user, nil
	}
	wire, err := d.fetcher.UserInfo(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving user %s: %w", userID, err)
	}
	if wire.ID != userID {
		return nil, fmt.Errorf("resolving user %s: fetch returned %q", userID, wire.ID)
	}
	return d.cache.PutUser(*wire)
}

// optionalUser resolves userID when it is set and returns nil when it
// is empty.
func (d *Dispatcher) optionalUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, nil
	}
	return d.User(ctx, userID)
}

// Conversation returns the cached conversation, fetching it and its
// membership on a miss. Concurrent misses for one id share a single
// fetch.
func (d *Dispatcher) Conversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("event names no conversation")
	}
	if conversation, ok := d.cache.Conversations.Get(conversationID); ok {
		return conversation, nil
	}
	if d.fetcher == nil {
		return nil, fmt.Errorf("resolving conversation %s: %w", conversationID, ErrNoFetcher)
	}
	result, err, _ := d.fetches.Do("conversation:"+conversationID, func() (any, error) {
		return d.fetchConversation(ctx, conversationID)
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Conversation), nil
}

func (d *Dispatcher) fetchConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	if conversation, ok := d.cache.Conversations.Get(conversationID); ok {
		return conversation, nil
	}
	wire, err := d.fetcher.ConversationInfo(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("resolving conversation %s: %w", conversationID, err)
	}
	if wire.ID != conversationID {
		return nil, fmt.Errorf("resolving conversation %s: fetch returned %q", conversationID, wire.ID)
	}
	if !wire.IsIM && len(wire.Members) == 0 {
		members, err := d.fetcher.ConversationMembers(ctx, conversationID)
		if err != nil {
			return nil, fmt.Errorf("resolving members of %s: %w", conversationID, err)
		}
		wire.Members = members
	}
	return d.storeConversation(ctx, *wire)
}

// storeConversation caches wire and resolves its member ids, fetching
// users the cache lacks. Members that cannot be fetched are logged and
// left out.
func (d *Dispatcher) storeConversation(ctx context.Context, wire model.WireConversation) (*model.Conversation, error) {
	conversation, missing, err := d.cache.PutConversation(wire)
	if err != nil {
		return nil, err
	}
	for _, userID := range missing {
		user, err := d.User(ctx, userID)
		if err != nil {
			d.logger.Warn("conversation member unresolvable", "conversation", wire.ID, "user", userID, "error", err)
			continue
		}
		conversation.AddMember(user)
	}
	return conversation, nil
}
