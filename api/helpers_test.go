// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"net/http"
	"testing"
)

func TestListUsersFollowsCursor(t *testing.T) {
	var calls int
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		calls++
		if request.URL.Path != "/api/users.list" {
			t.Errorf("path = %s", request.URL.Path)
		}
		if got := request.URL.Query().Get("limit"); got != "200" {
			t.Errorf("limit = %q, want 200", got)
		}
		switch request.URL.Query().Get("cursor") {
		case "":
			writeJSON(writer, http.StatusOK, map[string]any{
				"ok":                true,
				"members":           []map[string]any{{"id": "U1", "name": "ada"}},
				"response_metadata": map[string]any{"next_cursor": "page2"},
			})
		case "page2":
			writeJSON(writer, http.StatusOK, map[string]any{
				"ok":                true,
				"members":           []map[string]any{{"id": "U2", "name": "grace"}},
				"response_metadata": map[string]any{"next_cursor": ""},
			})
		default:
			t.Errorf("unexpected cursor %q", request.URL.Query().Get("cursor"))
		}
	})

	users, err := client.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("issued %d requests, want 2", calls)
	}
	if len(users) != 2 || users[0].ID != "U1" || users[1].Name != "grace" {
		t.Errorf("users = %+v", users)
	}
}

func TestListConversationsDefaultsTypes(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		if got := request.URL.Query().Get("types"); got != "public_channel,private_channel,mpim,im" {
			t.Errorf("types = %q", got)
		}
		if got := request.URL.Query().Get("exclude_archived"); got != "false" {
			t.Errorf("exclude_archived = %q", got)
		}
		writeJSON(writer, http.StatusOK, map[string]any{
			"ok":       true,
			"channels": []map[string]any{{"id": "C1", "name": "general", "is_channel": true}},
		})
	})

	conversations, err := client.ListConversations(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListConversations failed: %v", err)
	}
	if len(conversations) != 1 || !conversations[0].IsChannel {
		t.Errorf("conversations = %+v", conversations)
	}
}

func TestConnectRTM(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/api/rtm.connect" {
			t.Errorf("path = %s", request.URL.Path)
		}
		writeJSON(writer, http.StatusOK, map[string]any{
			"ok":   true,
			"url":  "wss://rtm.example.test/websocket/abc",
			"self": map[string]any{"id": "U0", "name": "bot"},
			"team": map[string]any{"id": "T1", "name": "Engines", "domain": "engines"},
		})
	})

	response, err := client.ConnectRTM(context.Background())
	if err != nil {
		t.Fatalf("ConnectRTM failed: %v", err)
	}
	if response.URL != "wss://rtm.example.test/websocket/abc" || response.Self.ID != "U0" || response.Team.Domain != "engines" {
		t.Errorf("response = %+v", response)
	}
}

func TestAuthTestSelf(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, http.StatusOK, map[string]any{
			"ok": true, "user": "bot", "user_id": "U0", "team": "Engines", "team_id": "T1", "bot_id": "B0",
		})
	})
	response, err := client.AuthTest(context.Background())
	if err != nil {
		t.Fatalf("AuthTest failed: %v", err)
	}
	self := response.Self()
	if self.ID != "U0" || self.Name != "bot" || self.TeamID != "T1" || self.BotID != "B0" {
		t.Errorf("Self() = %+v", self)
	}
}

func TestPostMessageThreadArguments(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		query := request.URL.Query()
		if query.Get("thread_ts") != "1.0" || query.Get("reply_broadcast") != "true" {
			t.Errorf("query = %v", query)
		}
		if query.Has("unfurl_links") {
			t.Error("unfurl_links sent although not requested")
		}
		writeJSON(writer, http.StatusOK, map[string]any{
			"ok": true, "channel": "C1", "ts": "2.0",
			"message": map[string]any{"type": "message", "user": "U0", "text": "hi", "ts": "2.0", "thread_ts": "1.0"},
		})
	})

	response, err := client.PostMessage(context.Background(), "C1", "hi", PostOptions{ThreadTS: "1.0", ReplyBroadcast: true})
	if err != nil {
		t.Fatalf("PostMessage failed: %v", err)
	}
	if response.TS != "2.0" || response.Message.ThreadTS != "1.0" {
		t.Errorf("response = %+v", response)
	}
}

func TestDNDTeamInfo(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		if got := request.URL.Query().Get("users"); got != "U1,U2" {
			t.Errorf("users = %q", got)
		}
		writeJSON(writer, http.StatusOK, map[string]any{
			"ok": true,
			"users": map[string]any{
				"U1": map[string]any{"dnd_enabled": true, "next_dnd_start_ts": 100, "next_dnd_end_ts": 200},
				"U2": map[string]any{"dnd_enabled": false},
			},
		})
	})

	statuses, err := client.DNDTeamInfo(context.Background(), []string{"U1", "U2"})
	if err != nil {
		t.Fatalf("DNDTeamInfo failed: %v", err)
	}
	if !statuses["U1"].Enabled || statuses["U1"].NextEnd != 200 || statuses["U2"].Enabled {
		t.Errorf("statuses = %+v", statuses)
	}
}

func TestHelperPropagatesRemoteError(t *testing.T) {
	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, http.StatusOK, map[string]any{"ok": false, "error": "user_not_found"})
	})
	if _, err := client.UserInfo(context.Background(), "U404"); !IsRemoteError(err, CodeUserNotFound) {
		t.Fatalf("UserInfo error = %v, want user_not_found", err)
	}
}

func TestArgsEncodeSkipsTypedNil(t *testing.T) {
	var missing *struct{ X int }
	encoded, err := Args{"a": "b", "nothing": missing}.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if encoded != "a=b" {
		t.Errorf("Encode() = %q, want a=b", encoded)
	}
}
