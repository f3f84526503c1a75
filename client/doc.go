// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package client assembles a complete slackline session: the HTTP
// transport, the entity cache, the RTM supervisor, and the dispatcher
// that keeps the cache current from the event stream.
//
// A Client is created with [New], populated and connected with
// [Client.Start], and released with [Client.Close]. Between the two,
// handlers registered with [Client.On] receive the domain events the
// dispatcher emits (see package dispatch for the names) as well as the
// supervisor's rtm.* lifecycle events:
//
//	c, err := client.New(client.Config{API: api.ClientConfig{Token: token}})
//	...
//	c.On(dispatch.EventMessage, func(event events.Event) {
//	    message := event.Payload.(*dispatch.MessageEvent)
//	    ...
//	})
//	if err := c.Start(ctx); err != nil { ... }
//	defer c.Close()
//
// Handlers run synchronously on the socket's read goroutine and must
// not block on the client's own request methods.
package client
