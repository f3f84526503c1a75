// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
	"time"
)

// RemoteError is a well-formed response in which the platform rejected
// the call. Callers can use errors.As to extract it:
//
//	var remoteErr *RemoteError
//	if errors.As(err, &remoteErr) {
//	    if remoteErr.Code == CodeRateLimited { ... }
//	}
type RemoteError struct {
	// Method is the dotted method name that failed.
	Method string
	// Code is the platform's error token (e.g., "channel_not_found").
	Code string
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// RetryAfter is parsed from the Retry-After header on 429 responses.
	RetryAfter time.Duration
	// Warning carries the response's warning field, if any.
	Warning string
	// Needed and Provided list OAuth scopes on missing_scope errors.
	Needed   string
	Provided string
}

func (e *RemoteError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("api: %s: %s (%d, retry after %s)", e.Method, e.Code, e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("api: %s: %s (%d)", e.Method, e.Code, e.StatusCode)
}

// TransportError is a call whose outcome could not be read as a
// response body at all: a network failure, an unreadable body, or a
// payload that is not JSON.
type TransportError struct {
	Method     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api: %s: transport failure (%d): %v", e.Method, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("api: %s: transport failure: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Platform error codes slackline reacts to.
const (
	CodeMigrationInProgress = "migration_in_progress"
	CodeRateLimited         = "ratelimited"
	CodeNotAuthed           = "not_authed"
	CodeInvalidAuth         = "invalid_auth"
	CodeAccountInactive     = "account_inactive"
	CodeTokenRevoked        = "token_revoked"
	CodeMissingScope        = "missing_scope"
	CodeChannelNotFound     = "channel_not_found"
	CodeUserNotFound        = "user_not_found"
	CodeMessageNotFound     = "message_not_found"
	CodeUnknown             = "unknown_error"
)

// IsRemoteError checks whether err is a *RemoteError with the given code.
func IsRemoteError(err error, code string) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Code == code
	}
	return false
}

// IsAuthError reports whether err means the token itself is unusable,
// in which case retrying cannot help.
func IsAuthError(err error) bool {
	var remoteErr *RemoteError
	if !errors.As(err, &remoteErr) {
		return false
	}
	switch remoteErr.Code {
	case CodeNotAuthed, CodeInvalidAuth, CodeAccountInactive, CodeTokenRevoked:
		return true
	}
	return false
}
