// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rtm

import (
	"errors"

	"github.com/bureau-foundation/slackline/api"
)

// ErrMigrationInProgress is wrapped by the error Connect returns when
// the workspace was still migrating after every permitted retry.
var ErrMigrationInProgress = errors.New("rtm: workspace migration in progress")

// ErrDestroyed is returned by a Connect that was overtaken by Destroy.
var ErrDestroyed = errors.New("rtm: session destroyed")

// ErrConnectionClosed fails requests still awaiting an acknowledgement
// when their connection goes away.
var ErrConnectionClosed = errors.New("rtm: connection closed before reply")

// FatalError is a connection failure that retrying cannot fix.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string {
	return "rtm: " + e.Reason
}

// IsFatal reports whether err is or wraps a *FatalError.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// MigrationClassifier reports whether a URL request failed because the
// workspace is migrating between servers.
type MigrationClassifier func(error) bool

// IsMigrationError is the default classifier: it matches an
// *api.RemoteError with code migration_in_progress anywhere in the
// error chain.
func IsMigrationError(err error) bool {
	return api.IsRemoteError(err, api.CodeMigrationInProgress)
}
