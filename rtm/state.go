// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rtm

import (
	"context"
	"fmt"
	"time"

	"github.com/bureau-foundation/slackline/api"
)

// State is the supervisor's connection state. The numeric values are
// exported as the rtm_state gauge.
type State int

const (
	StateInactive State = iota
	StateRequesting
	StateMigratingRetry
	StateConnecting
	StateActive
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateRequesting:
		return "requesting"
	case StateMigratingRetry:
		return "migrating_retry"
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Bus event names emitted by the Manager.
const (
	// EventFrame carries every inbound Frame.
	EventFrame = "rtm.event"
	// EventOpen fires when a connection becomes active.
	EventOpen = "rtm.open"
	// EventClose carries a CloseEvent.
	EventClose = "rtm.close"
	// EventError carries a *DecodeError or a keepalive failure.
	EventError = "rtm.error"
	// EventMigrating carries a MigratingEvent.
	EventMigrating = "rtm.migrating"
	// EventRequestFail carries the error of a failed URL request.
	EventRequestFail = "rtm.requestFail"
	// EventGoodbye fires when the server announces it will close.
	EventGoodbye = "rtm.goodbye"
	// EventAuthenticated carries the *api.ConnectResponse of a URL
	// request.
	EventAuthenticated = "rtm.authenticated"
	// EventState carries a StateChange.
	EventState = "rtm.state"
)

// StateChange is the payload of EventState.
type StateChange struct {
	From State
	To   State
}

// MigratingEvent is the payload of EventMigrating.
type MigratingEvent struct {
	// Attempt is the zero-based index of the request that failed.
	Attempt int
	// Delay is the wait before the next request. Zero when Retrying
	// is false.
	Delay    time.Duration
	Retrying bool
	Err      error
}

// CloseEvent is the payload of EventClose.
type CloseEvent struct {
	Generation uint64
	// Err is ErrTerminated for a local close and the read error
	// otherwise.
	Err error
}

// URLRequester asks the HTTP API for a socket URL.
type URLRequester func(ctx context.Context) (*api.ConnectResponse, error)
