// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rtm

import (
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/slackline/lib/netutil"
)

// Frame is one inbound socket message.
type Frame struct {
	// Type is the event type ("message", "hello", "goodbye"). Empty
	// for bare acknowledgements of outbound frames.
	Type string

	// ReplyTo is the id of the outbound frame this acknowledges, or
	// zero.
	ReplyTo int64

	// Raw is the complete frame as received.
	Raw json.RawMessage
}

// Decode unmarshals the frame into v.
func (f Frame) Decode(v any) error {
	return json.Unmarshal(f.Raw, v)
}

// DecodeError reports an inbound frame that is not a JSON event.
type DecodeError struct {
	Reason string
	Raw    []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("rtm: undecodable frame: %s: %s", e.Reason, netutil.Snippet(e.Raw))
}

type envelope struct {
	Type    *string `json:"type"`
	ReplyTo *int64  `json:"reply_to"`
}

// ParseFrame parses an inbound frame. The frame must be a JSON object
// with a string "type", or an acknowledgement carrying "reply_to".
func ParseFrame(data []byte) (Frame, error) {
	var header envelope
	if err := json.Unmarshal(data, &header); err != nil {
		return Frame{}, &DecodeError{Reason: err.Error(), Raw: append([]byte(nil), data...)}
	}
	if header.Type == nil && header.ReplyTo == nil {
		return Frame{}, &DecodeError{Reason: "missing type", Raw: append([]byte(nil), data...)}
	}
	frame := Frame{Raw: append(json.RawMessage(nil), data...)}
	if header.Type != nil {
		frame.Type = *header.Type
	}
	if header.ReplyTo != nil {
		frame.ReplyTo = *header.ReplyTo
	}
	return frame, nil
}
