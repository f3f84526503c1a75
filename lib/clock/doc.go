// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock is the time source for every slackline component that
// waits: migration backoff, the goodbye reconnect delay, and RTM
// keepalive pings.
//
// Production code receives [Real]. Tests receive [Fake] and drive time
// explicitly:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go manager.Connect(ctx, "")
//	fake.WaitForTimers(1)               // backoff timer registered
//	fake.Advance(100 * time.Millisecond) // fire it
//
// WaitForTimers closes the race between a goroutine arming a timer and
// the test advancing past its deadline, so no test needs wall-clock
// sleeps to observe a delay.
package clock
