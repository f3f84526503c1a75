// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Slackline-watch connects to a workspace and prints its event stream.
// It loads the YAML config named by --config or SLACKLINE_CONFIG,
// resolves the token from the configured source (or prompts for it with
// --token-prompt), keeps the entity cache current, and writes one line
// per domain event to stdout. With metrics.listen set it also serves
// Prometheus metrics at /metrics.
package main
