// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import "github.com/bureau-foundation/slackline/model"

// ResponseMetadata carries the pagination cursor of list methods.
type ResponseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

// ConnectResponse is the body of rtm.connect.
type ConnectResponse struct {
	URL  string     `json:"url"`
	Self model.Self `json:"self"`
	Team struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Domain string `json:"domain"`
	} `json:"team"`
}

// AuthTestResponse is the body of auth.test.
type AuthTestResponse struct {
	URL    string `json:"url"`
	Team   string `json:"team"`
	User   string `json:"user"`
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	BotID  string `json:"bot_id,omitempty"`
}

// Self converts the response to the authenticated identity.
func (r *AuthTestResponse) Self() model.Self {
	return model.Self{ID: r.UserID, Name: r.User, TeamID: r.TeamID, BotID: r.BotID}
}

// MessageResponse is the body of chat.postMessage and chat.update.
type MessageResponse struct {
	Channel string            `json:"channel"`
	TS      string            `json:"ts"`
	Text    string            `json:"text,omitempty"`
	Message model.WireMessage `json:"message"`
}

// PostOptions are the optional arguments of PostMessage.
type PostOptions struct {
	// ThreadTS posts the message as a reply in that thread.
	ThreadTS string
	// ReplyBroadcast also shows a thread reply in the channel.
	ReplyBroadcast bool
	// UnfurlLinks asks the platform to expand link previews.
	UnfurlLinks bool
}

type usersListResponse struct {
	Members          []model.WireUser `json:"members"`
	ResponseMetadata ResponseMetadata `json:"response_metadata"`
}

type userInfoResponse struct {
	User model.WireUser `json:"user"`
}

type conversationsListResponse struct {
	Channels         []model.WireConversation `json:"channels"`
	ResponseMetadata ResponseMetadata         `json:"response_metadata"`
}

type conversationInfoResponse struct {
	Channel model.WireConversation `json:"channel"`
}

type conversationMembersResponse struct {
	Members          []string         `json:"members"`
	ResponseMetadata ResponseMetadata `json:"response_metadata"`
}

type conversationHistoryResponse struct {
	Messages         []model.WireMessage `json:"messages"`
	HasMore          bool                `json:"has_more"`
	ResponseMetadata ResponseMetadata    `json:"response_metadata"`
}

type teamInfoResponse struct {
	Team model.WireTeam `json:"team"`
}

type dndTeamInfoResponse struct {
	Users map[string]model.WireDND `json:"users"`
}
