// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// DefaultTimeout bounds every wait in this package unless the caller
// passes its own.
const DefaultTimeout = 5 * time.Second

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from channel, failing the test
// after timeout or if the channel closes.
func RequireReceive[T any](t TB, channel <-chan T, timeout time.Duration, what string, args ...any) T {
	t.Helper()
	select {
	case value, ok := <-channel:
		if !ok {
			t.Fatalf("channel closed while %s", fmt.Sprintf(what, args...))
		}
		return value
	case <-time.After(timeout):
		t.Fatalf("timed out after %v while %s", timeout, fmt.Sprintf(what, args...))
	}
	panic("unreachable")
}

// RequireNoReceive fails the test if channel yields a value within
// window.
func RequireNoReceive[T any](t TB, channel <-chan T, window time.Duration, what string, args ...any) {
	t.Helper()
	select {
	case value := <-channel:
		t.Fatalf("unexpected value %v while %s", value, fmt.Sprintf(what, args...))
	case <-time.After(window):
	}
}

// RequireClosed waits for channel to close or deliver.
func RequireClosed(t TB, channel <-chan struct{}, timeout time.Duration, what string, args ...any) {
	t.Helper()
	select {
	case <-channel:
	case <-time.After(timeout):
		t.Fatalf("timed out after %v waiting for %s", timeout, fmt.Sprintf(what, args...))
	}
}

// Eventually polls condition every few milliseconds until it holds or
// timeout passes.
func Eventually(t TB, timeout time.Duration, condition func() bool, what string, args ...any) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met after %v: %s", timeout, fmt.Sprintf(what, args...))
		}
		time.Sleep(2 * time.Millisecond)
	}
}
