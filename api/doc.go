// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package api is the request transport for the chat platform's HTTP
// method API.
//
// [Client.Call] issues exactly one GET per invocation to
// {base}{method}, encoding [Args] into the query string and attaching
// the token as a bearer header. A response succeeds when its body
// decodes and carries ok:true with no error field. Anything else fails
// as a [*RemoteError] (readable body, platform error code) or a
// [*TransportError] (network failure or unreadable body). There are
// no retries here: retry policy belongs to callers such as the RTM
// manager.
//
// The generated [Methods] table (methods_gen.go, from methods.jsonc)
// exposes every method as Methods.<Category>.<Action>. Typed helpers
// such as [Client.ListUsers] and [Client.ConnectRTM] sit on top of
// the table and decode responses into model wire types.
//
// Calls are rate limited with golang.org/x/time/rate when configured,
// counted in lib/metrics, and traced with one OpenTelemetry span each.
package api

//go:generate go run ../cmd/slackline-methodgen --in methods.jsonc --out methods_gen.go
