// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package model

// WireUser is the platform's user object.
type WireUser struct {
	ID       string      `json:"id" cbor:"id"`
	TeamID   string      `json:"team_id,omitempty" cbor:"team_id,omitempty"`
	Name     string      `json:"name" cbor:"name"`
	Deleted  bool        `json:"deleted,omitempty" cbor:"deleted,omitempty"`
	RealName string      `json:"real_name,omitempty" cbor:"real_name,omitempty"`
	TimeZone string      `json:"tz,omitempty" cbor:"tz,omitempty"`
	IsBot    bool        `json:"is_bot,omitempty" cbor:"is_bot,omitempty"`
	IsAdmin  bool        `json:"is_admin,omitempty" cbor:"is_admin,omitempty"`
	IsOwner  bool        `json:"is_owner,omitempty" cbor:"is_owner,omitempty"`
	Presence string      `json:"presence,omitempty" cbor:"presence,omitempty"`
	Profile  WireProfile `json:"profile" cbor:"profile"`
}

// WireProfile is the nested profile block of a user object.
type WireProfile struct {
	RealName    string `json:"real_name,omitempty" cbor:"real_name,omitempty"`
	DisplayName string `json:"display_name,omitempty" cbor:"display_name,omitempty"`
	Email       string `json:"email,omitempty" cbor:"email,omitempty"`
	StatusText  string `json:"status_text,omitempty" cbor:"status_text,omitempty"`
	StatusEmoji string `json:"status_emoji,omitempty" cbor:"status_emoji,omitempty"`
	Image72     string `json:"image_72,omitempty" cbor:"image_72,omitempty"`
}

// WireDND is a user's do-not-disturb status as returned by dnd.info,
// dnd.teamInfo, and the dnd_updated events. Times are unix seconds.
type WireDND struct {
	Enabled         bool  `json:"dnd_enabled" cbor:"dnd_enabled"`
	NextStart       int64 `json:"next_dnd_start_ts,omitempty" cbor:"next_dnd_start_ts,omitempty"`
	NextEnd         int64 `json:"next_dnd_end_ts,omitempty" cbor:"next_dnd_end_ts,omitempty"`
	SnoozeEnabled   bool  `json:"snooze_enabled,omitempty" cbor:"snooze_enabled,omitempty"`
	SnoozeEndTime   int64 `json:"snooze_endtime,omitempty" cbor:"snooze_endtime,omitempty"`
	SnoozeRemaining int64 `json:"snooze_remaining,omitempty" cbor:"snooze_remaining,omitempty"`
}

// WireDescriptor is a conversation topic or purpose.
type WireDescriptor struct {
	Value   string `json:"value" cbor:"value"`
	Creator string `json:"creator,omitempty" cbor:"creator,omitempty"`
	LastSet int64  `json:"last_set,omitempty" cbor:"last_set,omitempty"`
}

// WireConversation is the platform's conversation object, covering
// public channels, private groups, IMs, and multi-person IMs.
type WireConversation struct {
	ID         string         `json:"id" cbor:"id"`
	Name       string         `json:"name,omitempty" cbor:"name,omitempty"`
	IsChannel  bool           `json:"is_channel,omitempty" cbor:"is_channel,omitempty"`
	IsGroup    bool           `json:"is_group,omitempty" cbor:"is_group,omitempty"`
	IsIM       bool           `json:"is_im,omitempty" cbor:"is_im,omitempty"`
	IsMPIM     bool           `json:"is_mpim,omitempty" cbor:"is_mpim,omitempty"`
	IsPrivate  bool           `json:"is_private,omitempty" cbor:"is_private,omitempty"`
	IsArchived bool           `json:"is_archived,omitempty" cbor:"is_archived,omitempty"`
	IsMember   bool           `json:"is_member,omitempty" cbor:"is_member,omitempty"`
	User       string         `json:"user,omitempty" cbor:"user,omitempty"`
	Created    int64          `json:"created,omitempty" cbor:"created,omitempty"`
	Creator    string         `json:"creator,omitempty" cbor:"creator,omitempty"`
	Topic      WireDescriptor `json:"topic" cbor:"topic"`
	Purpose    WireDescriptor `json:"purpose" cbor:"purpose"`
	Members    []string       `json:"members,omitempty" cbor:"members,omitempty"`
}

// WireTeam is the platform's team object. Icon values are mostly URLs
// keyed by size ("image_34"), plus the boolean "image_default".
type WireTeam struct {
	ID          string         `json:"id" cbor:"id"`
	Name        string         `json:"name" cbor:"name"`
	Domain      string         `json:"domain" cbor:"domain"`
	EmailDomain string         `json:"email_domain,omitempty" cbor:"email_domain,omitempty"`
	Icon        map[string]any `json:"icon,omitempty" cbor:"icon,omitempty"`
}

// WireEdited marks an edited message.
type WireEdited struct {
	User string `json:"user" cbor:"user"`
	TS   string `json:"ts" cbor:"ts"`
}

// WireMessage is a message as it appears in history responses and in
// message events. The subtype-specific fields are populated only for
// the subtypes that carry them.
type WireMessage struct {
	Type     string      `json:"type,omitempty" cbor:"type,omitempty"`
	Subtype  string      `json:"subtype,omitempty" cbor:"subtype,omitempty"`
	Channel  string      `json:"channel,omitempty" cbor:"channel,omitempty"`
	User     string      `json:"user,omitempty" cbor:"user,omitempty"`
	BotID    string      `json:"bot_id,omitempty" cbor:"bot_id,omitempty"`
	Text     string      `json:"text,omitempty" cbor:"text,omitempty"`
	TS       string      `json:"ts" cbor:"ts"`
	ThreadTS string      `json:"thread_ts,omitempty" cbor:"thread_ts,omitempty"`
	Edited   *WireEdited `json:"edited,omitempty" cbor:"edited,omitempty"`
	Hidden   bool        `json:"hidden,omitempty" cbor:"hidden,omitempty"`

	// message_changed carries the new and previous versions.
	Message         *WireMessage `json:"message,omitempty" cbor:"-"`
	PreviousMessage *WireMessage `json:"previous_message,omitempty" cbor:"-"`

	// message_deleted names the removed message.
	DeletedTS string `json:"deleted_ts,omitempty" cbor:"-"`

	// channel_topic, channel_purpose, channel_name.
	Topic   string `json:"topic,omitempty" cbor:"-"`
	Purpose string `json:"purpose,omitempty" cbor:"-"`
	Name    string `json:"name,omitempty" cbor:"-"`
	OldName string `json:"old_name,omitempty" cbor:"-"`
}

// Self is the identity the token authenticates as.
type Self struct {
	ID     string `json:"id" cbor:"id"`
	Name   string `json:"name" cbor:"name"`
	TeamID string `json:"team_id,omitempty" cbor:"team_id,omitempty"`
	BotID  string `json:"bot_id,omitempty" cbor:"bot_id,omitempty"`
}
