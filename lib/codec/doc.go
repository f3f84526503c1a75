// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is slackline's binary encoding for on-disk state.
//
// The wire protocols (HTTP API, RTM socket) are JSON and stay JSON.
// Cache snapshots are CBOR: compact, typed, and deterministic, so two
// snapshots of the same cache hash identically. Structs carry `json`
// tags only; fxamacker/cbor reads them as a fallback, which keeps one
// field naming across both encodings.
package codec
