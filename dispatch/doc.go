// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dispatch turns raw RTM frames into domain events.
//
// A [Dispatcher] holds one [Decoder] per event type. Decoders resolve
// the ids a frame mentions against the [cache.Cache], fetching missing
// entities through a [Fetcher], update the cache, and emit a domain
// event named "category.subtype" ("team.memberJoin",
// "conversation.renamed"). Messages are emitted as "message", or as
// "message.subtype.<subtype>" when the frame has a subtype, so a
// subscriber to "message" sees every message.
//
// A frame whose type has no decoder is emitted as "event.<type>" with
// the raw [rtm.Frame] as payload. A decoder that fails or panics
// produces an "error" event carrying a [*DecodeError]; no domain event
// is emitted for that frame and the cache is left as the decoder found
// it up to the point of failure.
//
// Decoders run on the socket's read goroutine, so frames are applied
// strictly in arrival order and a fetch on a cache miss delays every
// later frame until it completes.
package dispatch
