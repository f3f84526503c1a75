// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics defines slackline's Prometheus instrumentation.
//
// A [Collectors] value is created once per client and passed to the
// api transport, the RTM manager, and the dispatcher. Every method is
// safe on a nil *Collectors, so components built without metrics skip
// instrumentation instead of branching at each call site.
//
// Label cardinality is bounded: API method names come from the fixed
// method table and frame types from the platform's event catalogue.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "slackline"

// Collectors groups every slackline metric.
type Collectors struct {
	apiCalls        *prometheus.CounterVec
	apiDuration     *prometheus.HistogramVec
	frames          *prometheus.CounterVec
	frameErrors     prometheus.Counter
	connects        *prometheus.CounterVec
	migrationWaits  prometheus.Counter
	state           prometheus.Gauge
	dispatchErrors  *prometheus.CounterVec
	cachedEntities  *prometheus.GaugeVec
	outboundFrames  prometheus.Counter
	keepaliveMisses prometheus.Counter
}

// New builds the collectors and registers them on registerer. A nil
// registerer leaves them unregistered, which tests use to read values
// without touching a global registry.
func New(registerer prometheus.Registerer) (*Collectors, error) {
	collectors := &Collectors{
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_calls_total",
			Help:      "HTTP API calls by method and outcome (ok, remote_error, transport_error).",
		}, []string{"method", "outcome"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_call_duration_seconds",
			Help:      "HTTP API call latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rtm_frames_total",
			Help:      "Inbound RTM frames by event type.",
		}, []string{"type"}),
		frameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rtm_frame_decode_errors_total",
			Help:      "Inbound RTM frames that were not valid JSON events.",
		}),
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rtm_connects_total",
			Help:      "RTM connection attempts by result (ok, migrating, request_failed, dial_failed, fatal).",
		}, []string{"result"}),
		migrationWaits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rtm_migration_retries_total",
			Help:      "Backoff waits taken because the workspace was migrating.",
		}),
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rtm_state",
			Help:      "Current RTM supervisor state (0 inactive, 1 requesting, 2 migrating retry, 3 connecting, 4 active).",
		}),
		dispatchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_errors_total",
			Help:      "Events whose decoder failed, by event type.",
		}, []string{"type"}),
		cachedEntities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entities",
			Help:      "Entities held in the cache by kind.",
		}, []string{"kind"}),
		outboundFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rtm_outbound_frames_total",
			Help:      "Frames written to the RTM socket.",
		}),
		keepaliveMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rtm_keepalive_misses_total",
			Help:      "Pings that went unanswered past the pong timeout.",
		}),
	}

	if registerer == nil {
		return collectors, nil
	}
	var errs []error
	for _, collector := range collectors.all() {
		if err := registerer.Register(collector); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return collectors, nil
}

func (c *Collectors) all() []prometheus.Collector {
	return []prometheus.Collector{
		c.apiCalls, c.apiDuration, c.frames, c.frameErrors, c.connects,
		c.migrationWaits, c.state, c.dispatchErrors, c.cachedEntities,
		c.outboundFrames, c.keepaliveMisses,
	}
}

// ObserveAPICall records one HTTP call.
func (c *Collectors) ObserveAPICall(method, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.apiCalls.WithLabelValues(method, outcome).Inc()
	c.apiDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// FrameReceived counts one inbound frame.
func (c *Collectors) FrameReceived(eventType string) {
	if c == nil {
		return
	}
	c.frames.WithLabelValues(eventType).Inc()
}

// FrameDecodeFailed counts one unparseable frame.
func (c *Collectors) FrameDecodeFailed() {
	if c == nil {
		return
	}
	c.frameErrors.Inc()
}

// FrameSent counts one outbound frame.
func (c *Collectors) FrameSent() {
	if c == nil {
		return
	}
	c.outboundFrames.Inc()
}

// ConnectResult counts one connection attempt outcome.
func (c *Collectors) ConnectResult(result string) {
	if c == nil {
		return
	}
	c.connects.WithLabelValues(result).Inc()
}

// MigrationRetry counts one migration backoff wait.
func (c *Collectors) MigrationRetry() {
	if c == nil {
		return
	}
	c.migrationWaits.Inc()
}

// KeepaliveMissed counts one unanswered ping.
func (c *Collectors) KeepaliveMissed() {
	if c == nil {
		return
	}
	c.keepaliveMisses.Inc()
}

// SetState exports the supervisor state ordinal.
func (c *Collectors) SetState(ordinal int) {
	if c == nil {
		return
	}
	c.state.Set(float64(ordinal))
}

// DispatchFailed counts one decoder failure.
func (c *Collectors) DispatchFailed(eventType string) {
	if c == nil {
		return
	}
	c.dispatchErrors.WithLabelValues(eventType).Inc()
}

// SetCached exports the entity count for kind ("users", "conversations").
func (c *Collectors) SetCached(kind string, count int) {
	if c == nil {
		return
	}
	c.cachedEntities.WithLabelValues(kind).Set(float64(count))
}
