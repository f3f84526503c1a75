// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rtm

import (
	"time"

	"github.com/bureau-foundation/slackline/lib/config"
)

// Options tune the session supervisor.
type Options struct {
	// MigrationRetryBase is the wait before the first retry of a URL
	// request that failed because of a migration.
	MigrationRetryBase time.Duration

	// MigrationRetryIncrement is added to the wait for each further
	// retry: retry n waits base + increment*n.
	MigrationRetryIncrement time.Duration

	// MigrationRetryAttempts is the number of retries after the first
	// request.
	MigrationRetryAttempts int

	// RetryIfMigrating enables migration retries at all.
	RetryIfMigrating bool

	// GoodbyeWaitTime is the pause between a server goodbye and the
	// reconnect.
	GoodbyeWaitTime time.Duration

	// AutoReconnect reconnects after a goodbye, an abnormal close, or a
	// missed pong.
	AutoReconnect bool

	// PingInterval is the keepalive period. Zero disables keepalive.
	PingInterval time.Duration

	// PongTimeout is how long a ping may go unanswered.
	PongTimeout time.Duration
}

// DefaultOptions returns the defaults also used by lib/config.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default().RTM)
}

// OptionsFromConfig converts the rtm configuration section.
func OptionsFromConfig(rtm config.RTMConfig) Options {
	return Options{
		MigrationRetryBase:      rtm.MigrationRetryBase,
		MigrationRetryIncrement: rtm.MigrationRetryIncrement,
		MigrationRetryAttempts:  rtm.MigrationRetryAttempts,
		RetryIfMigrating:        rtm.RetryIfMigrating,
		GoodbyeWaitTime:         rtm.GoodbyeWaitTime,
		AutoReconnect:           rtm.AutoReconnect,
		PingInterval:            rtm.PingInterval,
		PongTimeout:             rtm.PongTimeout,
	}
}

// migrationDelay is the wait before retry number attempt (zero-based).
func (o Options) migrationDelay(attempt int) time.Duration {
	return o.MigrationRetryBase + o.MigrationRetryIncrement*time.Duration(attempt)
}
