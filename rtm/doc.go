// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rtm maintains the real-time messaging session.
//
// [Socket] owns one websocket connection at a time. Each inbound text
// frame is parsed into a [Frame] and handed to a [SocketListener] on
// the connection's read goroutine, tagged with a generation number so
// callbacks from a replaced connection can be told apart from the live
// one. Malformed frames are reported as [*DecodeError] and the loop
// keeps reading.
//
// [Manager] supervises the socket. It asks the HTTP API for a socket
// URL, retries with linear backoff while the workspace is migrating
// between servers, reconnects after a server goodbye or an abnormal
// close, and keeps the connection alive with ping frames. Every
// inbound frame is re-emitted on the [events.Bus] as "rtm.event";
// lifecycle changes are emitted under the "rtm." prefix.
//
// All timing runs on an injected [clock.Clock] so tests drive backoff,
// goodbye waits, and keepalive deterministically.
package rtm
