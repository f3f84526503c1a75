// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/slackline/model"
	"github.com/bureau-foundation/slackline/rtm"
)

func registerBuiltins(d *Dispatcher) {
	d.Register("message", decodeMessage)
	d.Register("team_join", decodeUserEvent(EventTeamMemberJoin))
	d.Register("user_change", decodeUserEvent(EventUserChanged))
	d.Register("presence_change", decodePresence)
	d.Register("manual_presence_change", decodeManualPresence)
	d.Register("dnd_updated", decodeDND)
	d.Register("dnd_updated_user", decodeDND)
	d.Register("channel_created", decodeCreated(func(wire *model.WireConversation) { wire.IsChannel = true }))
	d.Register("group_joined", decodeCreated(func(wire *model.WireConversation) { wire.IsGroup = true }))
	d.Register("im_created", decodeCreated(func(wire *model.WireConversation) { wire.IsIM = true }))
	d.Register("mpim_joined", decodeCreated(func(wire *model.WireConversation) { wire.IsMPIM = true }))
	d.Register("channel_deleted", decodeDeleted)
	d.Register("group_deleted", decodeDeleted)
	d.Register("channel_rename", decodeRename)
	d.Register("group_rename", decodeRename)
	d.Register("channel_archive", decodeArchive(true))
	d.Register("group_archive", decodeArchive(true))
	d.Register("channel_unarchive", decodeArchive(false))
	d.Register("group_unarchive", decodeArchive(false))
	d.Register("member_joined_channel", decodeMembership(true))
	d.Register("member_left_channel", decodeMembership(false))
	d.Register("team_rename", decodeTeamRename)
	d.Register("team_domain_change", decodeTeamDomainChange)
}

func decodeMessage(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
	var wire model.WireMessage
	if err := frame.Decode(&wire); err != nil {
		return err
	}
	conversation, err := d.Conversation(ctx, wire.Channel)
	if err != nil {
		return err
	}
	event := &MessageEvent{Conversation: conversation, Subtype: wire.Subtype}
	if wire.PreviousMessage != nil && wire.PreviousMessage.TS != "" {
		event.Previous, err = model.MessageFromWire(conversation.ID(), *wire.PreviousMessage)
		if err != nil {
			return err
		}
	}

	switch wire.Subtype {
	case "message_changed":
		if wire.Message == nil {
			return fmt.Errorf("message_changed without a message")
		}
		edited, err := model.MessageFromWire(conversation.ID(), *wire.Message)
		if err != nil {
			return err
		}
		if event.User, err = d.optionalUser(ctx, edited.UserID); err != nil {
			return err
		}
		conversation.ReplaceMessage(edited)
		event.Message = edited

	case "message_deleted":
		if wire.DeletedTS == "" {
			return fmt.Errorf("message_deleted without deleted_ts")
		}
		conversation.RemoveMessage(wire.DeletedTS)
		event.DeletedTS = wire.DeletedTS

	default:
		message, err := model.MessageFromWire(conversation.ID(), wire)
		if err != nil {
			return err
		}
		if event.User, err = d.optionalUser(ctx, message.UserID); err != nil {
			return err
		}
		applyDescriptorChange(conversation, wire, message)
		if err := conversation.AppendMessage(message); err != nil {
			return err
		}
		event.Message = message
	}

	d.Emit(MessageEventName(wire.Subtype), event)
	return nil
}

// applyDescriptorChange updates the conversation for the subtypes that
// announce a topic, purpose, or name change.
func applyDescriptorChange(conversation *model.Conversation, wire model.WireMessage, message *model.Message) {
	switch wire.Subtype {
	case "channel_topic", "group_topic":
		setAt, _ := message.Time()
		conversation.SetTopic(model.Descriptor{Value: wire.Topic, Creator: wire.User, LastSet: setAt})
	case "channel_purpose", "group_purpose":
		setAt, _ := message.Time()
		conversation.SetPurpose(model.Descriptor{Value: wire.Purpose, Creator: wire.User, LastSet: setAt})
	case "channel_name", "group_name":
		if wire.Name != "" {
			conversation.SetName(wire.Name)
		}
	}
}

type userFrame struct {
	User model.WireUser `json:"user"`
}

// decodeUserEvent handles frames carrying a full user object.
func decodeUserEvent(eventName string) Decoder {
	return func(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
		var body userFrame
		if err := frame.Decode(&body); err != nil {
			return err
		}
		user, err := d.cache.PutUser(body.User)
		if err != nil {
			return err
		}
		d.Emit(eventName, user)
		return nil
	}
}

func decodePresence(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
	var body struct {
		User     string   `json:"user"`
		Users    []string `json:"users"`
		Presence string   `json:"presence"`
	}
	if err := frame.Decode(&body); err != nil {
		return err
	}
	ids := body.Users
	if body.User != "" {
		ids = append([]string{body.User}, ids...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("presence_change names no user")
	}
	// Resolve every user before changing any, so a failure leaves no
	// partial update behind.
	users := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		user, err := d.User(ctx, id)
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	for _, user := range users {
		user.SetPresence(body.Presence)
		d.Emit(EventUserPresence, PresenceEvent{User: user, Presence: body.Presence})
	}
	return nil
}

// decodeManualPresence handles the authenticated user's own presence
// change, which names no user.
func decodeManualPresence(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
	var body struct {
		Presence string `json:"presence"`
	}
	if err := frame.Decode(&body); err != nil {
		return err
	}
	self := d.cache.Self()
	if self == nil {
		return fmt.Errorf("manual_presence_change before the identity is known")
	}
	user, err := d.User(ctx, self.ID)
	if err != nil {
		return err
	}
	user.SetPresence(body.Presence)
	d.Emit(EventUserPresence, PresenceEvent{User: user, Presence: body.Presence})
	return nil
}

func decodeDND(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
	var body struct {
		User      string        `json:"user"`
		DNDStatus model.WireDND `json:"dnd_status"`
	}
	if err := frame.Decode(&body); err != nil {
		return err
	}
	user, err := d.User(ctx, body.User)
	if err != nil {
		return err
	}
	d.Emit(EventUserDND, user.SetDND(body.DNDStatus))
	return nil
}

// decodeCreated handles the frames announcing a conversation the user
// can now see. mark sets the kind flag the frame implies, since the
// embedded object is often partial.
func decodeCreated(mark func(*model.WireConversation)) Decoder {
	return func(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
		var body struct {
			User    string                 `json:"user"`
			Channel model.WireConversation `json:"channel"`
		}
		if err := frame.Decode(&body); err != nil {
			return err
		}
		if body.Channel.ID == "" {
			return fmt.Errorf("%s without a channel id", frame.Type)
		}
		mark(&body.Channel)
		if body.Channel.IsIM && body.Channel.User == "" {
			body.Channel.User = body.User
		}
		if body.Channel.IsIM {
			if _, err := d.User(ctx, body.Channel.User); err != nil {
				return err
			}
		}
		conversation, err := d.storeConversation(ctx, body.Channel)
		if err != nil {
			return err
		}
		d.Emit(EventConversationCreated, conversation)
		return nil
	}
}

type channelIDFrame struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
}

func decodeDeleted(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
	var body channelIDFrame
	if err := frame.Decode(&body); err != nil {
		return err
	}
	// A deleted conversation cannot be fetched; only a cached one can
	// be reported.
	conversation, ok := d.cache.DropConversation(body.Channel)
	if !ok {
		return fmt.Errorf("deleted conversation %q is not cached", body.Channel)
	}
	d.Emit(EventConversationDeleted, conversation)
	return nil
}

func decodeRename(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
	var body struct {
		Channel struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"channel"`
	}
	if err := frame.Decode(&body); err != nil {
		return err
	}
	if body.Channel.Name == "" {
		return fmt.Errorf("%s without a name", frame.Type)
	}
	conversation, err := d.Conversation(ctx, body.Channel.ID)
	if err != nil {
		return err
	}
	oldName := conversation.Name()
	conversation.SetName(body.Channel.Name)
	d.Emit(EventConversationRenamed, RenameEvent{Conversation: conversation, OldName: oldName, Name: body.Channel.Name})
	return nil
}

func decodeArchive(archived bool) Decoder {
	eventName := EventConversationUnarchived
	if archived {
		eventName = EventConversationArchived
	}
	return func(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
		var body channelIDFrame
		if err := frame.Decode(&body); err != nil {
			return err
		}
		conversation, err := d.Conversation(ctx, body.Channel)
		if err != nil {
			return err
		}
		actor, err := d.optionalUser(ctx, body.User)
		if err != nil {
			return err
		}
		conversation.SetArchived(archived)
		d.Emit(eventName, ConversationEvent{Conversation: conversation, User: actor})
		return nil
	}
}

func decodeMembership(joined bool) Decoder {
	eventName := EventMemberLeft
	if joined {
		eventName = EventMemberJoined
	}
	return func(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
		var body channelIDFrame
		if err := frame.Decode(&body); err != nil {
			return err
		}
		conversation, err := d.Conversation(ctx, body.Channel)
		if err != nil {
			return err
		}
		user, err := d.User(ctx, body.User)
		if err != nil {
			return err
		}
		if joined {
			conversation.AddMember(user)
		} else {
			conversation.RemoveMember(user.ID())
		}
		d.Emit(eventName, ConversationEvent{Conversation: conversation, User: user})
		return nil
	}
}

func decodeTeamRename(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := frame.Decode(&body); err != nil {
		return err
	}
	team := d.cache.Team()
	if team == nil {
		return fmt.Errorf("team_rename before the team is known")
	}
	previous := team.Name()
	team.SetName(body.Name)
	d.Emit(EventTeamRenamed, TeamEvent{Team: team, Previous: previous})
	return nil
}

func decodeTeamDomainChange(ctx context.Context, d *Dispatcher, frame rtm.Frame) error {
	var body struct {
		Domain string `json:"domain"`
		URL    string `json:"url"`
	}
	if err := frame.Decode(&body); err != nil {
		return err
	}
	team := d.cache.Team()
	if team == nil {
		return fmt.Errorf("team_domain_change before the team is known")
	}
	previous := team.Domain()
	team.SetDomain(body.Domain)
	d.Emit(EventTeamDomainChanged, TeamEvent{Team: team, Previous: previous})
	return nil
}
