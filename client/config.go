// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"fmt"
	"log/slog"

	"github.com/coder/websocket"

	"github.com/bureau-foundation/slackline/api"
	"github.com/bureau-foundation/slackline/cache"
	"github.com/bureau-foundation/slackline/lib/clock"
	"github.com/bureau-foundation/slackline/lib/config"
	"github.com/bureau-foundation/slackline/lib/metrics"
	"github.com/bureau-foundation/slackline/lib/secret"
	"github.com/bureau-foundation/slackline/rtm"
)

// Config configures a Client.
type Config struct {
	// API configures the HTTP transport. API.Token is required and is
	// owned by the client from New onward: Close releases it.
	API api.ClientConfig

	// RTM tunes the session supervisor. The zero value disables
	// migration retries, reconnects, and keepalive; use
	// rtm.DefaultOptions for the usual behavior.
	RTM rtm.Options

	// MessageLimit bounds each conversation's history. Zero selects
	// cache.DefaultMessageLimit; a negative value keeps none.
	MessageLimit int

	// SnapshotPath, when set, is read by Start and written by Close.
	SnapshotPath string

	// Compression is applied to written snapshots.
	Compression cache.Compression

	// Clock drives the supervisor's timers. Defaults to clock.Real().
	Clock clock.Clock

	// DialOptions are passed to the websocket dialer.
	DialOptions *websocket.DialOptions

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics may be nil.
	Metrics *metrics.Collectors
}

// ConfigFromFile converts a loaded configuration file into a Config
// using token as the workspace token.
func ConfigFromFile(file *config.Config, token *secret.Buffer) (Config, error) {
	compression, err := cache.ParseCompression(file.Cache.Compression)
	if err != nil {
		return Config{}, fmt.Errorf("client: %w", err)
	}
	// The file's message_limit keeps no history at zero; the cache
	// reads zero as "default".
	messageLimit := file.Cache.MessageLimit
	if messageLimit <= 0 {
		messageLimit = -1
	}
	return Config{
		API: api.ClientConfig{
			BaseURL:           file.API.BaseURL,
			Token:             token,
			Timeout:           file.API.Timeout,
			RequestsPerSecond: file.API.RequestsPerSecond,
			Burst:             file.API.Burst,
		},
		RTM:          rtm.OptionsFromConfig(file.RTM),
		MessageLimit: messageLimit,
		SnapshotPath: file.Cache.SnapshotPath,
		Compression:  compression,
	}, nil
}
