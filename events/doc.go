// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package events is the in-process notification bus shared by the
// session supervisor, the dispatcher, and application code.
//
// Event names are dotted ("rtm.open", "message.subtype.channel_join").
// A subscription pattern receives an event when it equals the name,
// when it is a dotted prefix of the name ("message" receives
// "message.subtype.bot_message"), or when it is "*".
//
// Delivery is synchronous: Emit runs every matching handler, in
// registration order, on the emitting goroutine before returning.
// Handlers may subscribe, unsubscribe, and emit from inside a handler;
// changes to the subscription list take effect for the next Emit.
package events
