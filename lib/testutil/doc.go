// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds the wall-clock safety valves for slackline
// tests. Everything timing-related in production code runs on
// lib/clock; the helpers here only bound how long a test waits for a
// goroutine before failing instead of hanging.
package testutil
