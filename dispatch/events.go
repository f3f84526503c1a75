// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import "github.com/bureau-foundation/slackline/model"

// Domain event names.
const (
	EventMessage                = "message"
	EventTeamMemberJoin         = "team.memberJoin"
	EventTeamRenamed            = "team.renamed"
	EventTeamDomainChanged      = "team.domainChanged"
	EventUserChanged            = "user.changed"
	EventUserPresence           = "user.presence"
	EventUserDND                = "user.dnd"
	EventConversationCreated    = "conversation.created"
	EventConversationDeleted    = "conversation.deleted"
	EventConversationRenamed    = "conversation.renamed"
	EventConversationArchived   = "conversation.archived"
	EventConversationUnarchived = "conversation.unarchived"
	EventMemberJoined           = "conversation.memberJoined"
	EventMemberLeft             = "conversation.memberLeft"
	EventError                  = "error"

	// GenericPrefix prefixes the names of frames without a decoder.
	GenericPrefix = "event."
)

// MessageEventName returns the event name for a message with the given
// subtype.
func MessageEventName(subtype string) string {
	if subtype == "" {
		return EventMessage
	}
	return EventMessage + ".subtype." + subtype
}

// MessageEvent is the payload of message events.
type MessageEvent struct {
	Conversation *model.Conversation

	// Message is the new message, or the edited version for
	// message_changed. Nil for message_deleted.
	Message *model.Message

	// User is the sender when the message has one.
	User *model.User

	// Previous is the version before an edit or deletion, when the
	// frame carries it.
	Previous *model.Message

	// DeletedTS names the removed message for message_deleted.
	DeletedTS string

	Subtype string
}

// PresenceEvent is the payload of user.presence.
type PresenceEvent struct {
	User     *model.User
	Presence string
}

// ConversationEvent is the payload of conversation events that involve
// a user: archive and unarchive (the actor, possibly nil), and member
// joins and leaves.
type ConversationEvent struct {
	Conversation *model.Conversation
	User         *model.User
}

// RenameEvent is the payload of conversation.renamed.
type RenameEvent struct {
	Conversation *model.Conversation
	OldName      string
	Name         string
}

// TeamEvent is the payload of team.renamed and team.domainChanged.
type TeamEvent struct {
	Team *model.Team
	// Previous is the name or domain before the change.
	Previous string
}
