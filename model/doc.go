// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package model defines the entities a slackline client keeps in its
// cache: [Conversation], [User] with its [DND] status, the singleton
// [Team], and immutable [Message] values.
//
// Wire shapes live in wire.go as plain structs with explicit JSON tags.
// Every entity has a FromWire constructor and a Wire method, so the
// mapping between the platform's snake_case fields and Go names is a
// compile-time table rather than runtime string rewriting. Cache
// snapshots persist the wire shapes.
//
// Conversation, User, and Team carry an immutable id fixed at
// construction. Their mutable state sits behind an RWMutex: any
// goroutine may read, while writes come from the event dispatcher and
// the client's bulk population. Messages and DND records are never
// mutated in place; an edit or a DND change replaces the value.
package model
