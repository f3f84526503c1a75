// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Edit records who last edited a message and when.
type Edit struct {
	User string
	TS   string
}

// Message is a single chat message. It is immutable once constructed:
// an edit arrives as a new Message with the same TS that replaces the
// old one in the conversation's history.
type Message struct {
	// ConversationID is the conversation the message belongs to.
	ConversationID string

	// UserID is the sender. Bot messages without a user carry BotID
	// instead.
	UserID string
	BotID  string

	// TS is the message's identity and ordering key within its
	// conversation.
	TS string

	// ThreadTS is the parent's TS for threaded replies, and equal to
	// TS for a thread's parent message.
	ThreadTS string

	Subtype string
	Text    string
	Edited  *Edit
	Hidden  bool
}

// ErrMissingTS is returned for a message that has no timestamp.
var ErrMissingTS = errors.New("model: message has no ts")

// MessageFromWire builds a Message. conversationID overrides the wire
// channel when non-empty, since history responses omit it.
func MessageFromWire(conversationID string, wire WireMessage) (*Message, error) {
	if wire.TS == "" {
		return nil, ErrMissingTS
	}
	if conversationID == "" {
		conversationID = wire.Channel
	}
	if conversationID == "" {
		return nil, fmt.Errorf("model: message %s has no conversation", wire.TS)
	}

	message := &Message{
		ConversationID: conversationID,
		UserID:         wire.User,
		BotID:          wire.BotID,
		TS:             wire.TS,
		ThreadTS:       wire.ThreadTS,
		Subtype:        wire.Subtype,
		Text:           wire.Text,
		Hidden:         wire.Hidden,
	}
	if wire.Edited != nil {
		message.Edited = &Edit{User: wire.Edited.User, TS: wire.Edited.TS}
	}
	return message, nil
}

// IsThreadReply reports whether the message is a reply inside a thread
// rather than a top-level message or a thread parent.
func (m *Message) IsThreadReply() bool {
	return m.ThreadTS != "" && m.ThreadTS != m.TS
}

// Time returns the message timestamp as a time.Time.
func (m *Message) Time() (time.Time, error) {
	return ParseTS(m.TS)
}

// Wire converts the message back to its wire shape.
func (m *Message) Wire() WireMessage {
	wire := WireMessage{
		Type:     "message",
		Subtype:  m.Subtype,
		Channel:  m.ConversationID,
		User:     m.UserID,
		BotID:    m.BotID,
		Text:     m.Text,
		TS:       m.TS,
		ThreadTS: m.ThreadTS,
		Hidden:   m.Hidden,
	}
	if m.Edited != nil {
		wire.Edited = &WireEdited{User: m.Edited.User, TS: m.Edited.TS}
	}
	return wire
}

// ParseTS converts a platform timestamp ("1700000000.000200": unix
// seconds, a dot, microseconds) to a time.Time.
func ParseTS(ts string) (time.Time, error) {
	seconds, fraction, _ := strings.Cut(ts, ".")
	unixSeconds, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("model: invalid ts %q: %w", ts, err)
	}
	var micros int64
	if fraction != "" {
		if len(fraction) > 6 {
			fraction = fraction[:6]
		}
		fraction += strings.Repeat("0", 6-len(fraction))
		micros, err = strconv.ParseInt(fraction, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("model: invalid ts %q: %w", ts, err)
		}
	}
	return time.Unix(unixSeconds, micros*int64(time.Microsecond)).UTC(), nil
}

// CompareTS orders two platform timestamps. Values that do not parse
// are ordered by their text.
func CompareTS(a, b string) int {
	first, errFirst := ParseTS(a)
	second, errSecond := ParseTS(b)
	if errFirst != nil || errSecond != nil {
		return strings.Compare(a, b)
	}
	return first.Compare(second)
}

func unixTime(seconds int64) time.Time {
	if seconds == 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}

func unixSeconds(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
