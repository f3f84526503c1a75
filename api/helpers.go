// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bureau-foundation/slackline/model"
)

// PageSize is the limit requested from cursor-paginated methods.
const PageSize = 200

// AllConversationTypes is the types filter covering every kind of
// conversation.
var AllConversationTypes = []string{"public_channel", "private_channel", "mpim", "im"}

func decodeInto(method string, body json.RawMessage, target any) error {
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("api: failed to parse %s response: %w", method, err)
	}
	return nil
}

// paginate follows next_cursor until it is empty, calling call once
// per page. decode returns the page's items and the next cursor.
func paginate[T any](ctx context.Context, method string, call func(context.Context, Args) (json.RawMessage, error), args Args,
	decode func(json.RawMessage) ([]T, string, error)) ([]T, error) {
	var all []T
	cursor := ""
	for {
		pageArgs := args.With("limit", PageSize)
		if cursor != "" {
			pageArgs["cursor"] = cursor
		}
		body, err := call(ctx, pageArgs)
		if err != nil {
			return nil, err
		}
		items, next, err := decode(body)
		if err != nil {
			return nil, fmt.Errorf("api: failed to parse %s response: %w", method, err)
		}
		all = append(all, items...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// ConnectRTM requests a real-time socket URL with rtm.connect.
func (c *Client) ConnectRTM(ctx context.Context) (*ConnectResponse, error) {
	body, err := c.Methods.RTM.Connect(ctx, Args{"batch_presence_aware": true})
	if err != nil {
		return nil, err
	}
	var response ConnectResponse
	if err := decodeInto("rtm.connect", body, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// AuthTest identifies the token's user and team.
func (c *Client) AuthTest(ctx context.Context) (*AuthTestResponse, error) {
	body, err := c.Methods.Auth.Test(ctx, nil)
	if err != nil {
		return nil, err
	}
	var response AuthTestResponse
	if err := decodeInto("auth.test", body, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// TeamInfo fetches the workspace.
func (c *Client) TeamInfo(ctx context.Context) (*model.WireTeam, error) {
	body, err := c.Methods.Team.Info(ctx, nil)
	if err != nil {
		return nil, err
	}
	var response teamInfoResponse
	if err := decodeInto("team.info", body, &response); err != nil {
		return nil, err
	}
	return &response.Team, nil
}

// ListUsers fetches every user, following pagination.
func (c *Client) ListUsers(ctx context.Context) ([]model.WireUser, error) {
	return paginate(ctx, "users.list", c.Methods.Users.List, Args{"include_locale": true},
		func(body json.RawMessage) ([]model.WireUser, string, error) {
			var response usersListResponse
			err := json.Unmarshal(body, &response)
			return response.Members, response.ResponseMetadata.NextCursor, err
		})
}

// UserInfo fetches one user.
func (c *Client) UserInfo(ctx context.Context, userID string) (*model.WireUser, error) {
	body, err := c.Methods.Users.Info(ctx, Args{"user": userID})
	if err != nil {
		return nil, err
	}
	var response userInfoResponse
	if err := decodeInto("users.info", body, &response); err != nil {
		return nil, err
	}
	return &response.User, nil
}

// ListConversations fetches every conversation of the given types
// (AllConversationTypes when empty), including archived ones.
func (c *Client) ListConversations(ctx context.Context, types []string) ([]model.WireConversation, error) {
	if len(types) == 0 {
		types = AllConversationTypes
	}
	args := Args{"types": strings.Join(types, ","), "exclude_archived": false}
	return paginate(ctx, "conversations.list", c.Methods.Conversations.List, args,
		func(body json.RawMessage) ([]model.WireConversation, string, error) {
			var response conversationsListResponse
			err := json.Unmarshal(body, &response)
			return response.Channels, response.ResponseMetadata.NextCursor, err
		})
}

// ConversationInfo fetches one conversation.
func (c *Client) ConversationInfo(ctx context.Context, conversationID string) (*model.WireConversation, error) {
	body, err := c.Methods.Conversations.Info(ctx, Args{"channel": conversationID})
	if err != nil {
		return nil, err
	}
	var response conversationInfoResponse
	if err := decodeInto("conversations.info", body, &response); err != nil {
		return nil, err
	}
	return &response.Channel, nil
}

// ConversationMembers fetches the member ids of a conversation,
// following pagination.
func (c *Client) ConversationMembers(ctx context.Context, conversationID string) ([]string, error) {
	return paginate(ctx, "conversations.members", c.Methods.Conversations.Members, Args{"channel": conversationID},
		func(body json.RawMessage) ([]string, string, error) {
			var response conversationMembersResponse
			err := json.Unmarshal(body, &response)
			return response.Members, response.ResponseMetadata.NextCursor, err
		})
}

// ConversationHistory fetches up to limit of the most recent messages,
// newest first as the platform returns them. One request.
func (c *Client) ConversationHistory(ctx context.Context, conversationID string, limit int) ([]model.WireMessage, error) {
	body, err := c.Methods.Conversations.History(ctx, Args{"channel": conversationID, "limit": limit})
	if err != nil {
		return nil, err
	}
	var response conversationHistoryResponse
	if err := decodeInto("conversations.history", body, &response); err != nil {
		return nil, err
	}
	return response.Messages, nil
}

// PostMessage posts text to a conversation over HTTP.
func (c *Client) PostMessage(ctx context.Context, conversationID, text string, options PostOptions) (*MessageResponse, error) {
	args := Args{"channel": conversationID, "text": text}
	if options.ThreadTS != "" {
		args["thread_ts"] = options.ThreadTS
		if options.ReplyBroadcast {
			args["reply_broadcast"] = true
		}
	}
	if options.UnfurlLinks {
		args["unfurl_links"] = true
	}
	body, err := c.Methods.Chat.PostMessage(ctx, args)
	if err != nil {
		return nil, err
	}
	var response MessageResponse
	if err := decodeInto("chat.postMessage", body, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// UpdateMessage replaces the text of the message at ts.
func (c *Client) UpdateMessage(ctx context.Context, conversationID, ts, text string) (*MessageResponse, error) {
	body, err := c.Methods.Chat.Update(ctx, Args{"channel": conversationID, "ts": ts, "text": text})
	if err != nil {
		return nil, err
	}
	var response MessageResponse
	if err := decodeInto("chat.update", body, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// DeleteMessage deletes the message at ts.
func (c *Client) DeleteMessage(ctx context.Context, conversationID, ts string) error {
	_, err := c.Methods.Chat.Delete(ctx, Args{"channel": conversationID, "ts": ts})
	return err
}

// DNDTeamInfo fetches DND status for userIDs, or for the whole team
// when userIDs is empty.
func (c *Client) DNDTeamInfo(ctx context.Context, userIDs []string) (map[string]model.WireDND, error) {
	var args Args
	if len(userIDs) > 0 {
		args = Args{"users": strings.Join(userIDs, ",")}
	}
	body, err := c.Methods.DND.TeamInfo(ctx, args)
	if err != nil {
		return nil, err
	}
	var response dndTeamInfoResponse
	if err := decodeInto("dnd.teamInfo", body, &response); err != nil {
		return nil, err
	}
	return response.Users, nil
}
