// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil holds the I/O limits and connection-error
// classification shared by the HTTP transport and the RTM socket.
package netutil

import (
	"io"
)

// MaxResponseSize bounds HTTP API response reads. Real responses are
// far smaller; the bound only stops a broken server from exhausting
// memory.
const MaxResponseSize int64 = 64 << 20

// MaxFrameSize bounds a single inbound RTM frame. Large workspaces emit
// multi-megabyte user_change and channel payloads.
const MaxFrameSize int64 = 16 << 20

// ReadResponse reads an API response body up to MaxResponseSize.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// Snippet shortens body for inclusion in an error message.
func Snippet(body []byte) string {
	const limit = 256
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
