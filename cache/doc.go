// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache holds the client's in-memory view of the workspace:
// conversations, users, the team, and the authenticated identity.
//
// A [Store] is a keyed map with last-write-wins semantics and no
// expiration. Entities stay until they are explicitly deleted. Writes
// come from the dispatcher goroutine and the startup bulk load; reads
// may come from any goroutine.
//
// The cache can be persisted as a snapshot (see [WriteSnapshot]) and
// restored on the next start, so a client has names to show before the
// initial fetches complete. A snapshot is a fixed header followed by a
// CBOR payload, optionally compressed with zstd or LZ4, and guarded by
// a BLAKE3 digest of the uncompressed payload.
package cache
