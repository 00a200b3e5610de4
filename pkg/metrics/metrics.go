// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics provides a self-contained Prometheus registry with
// per-command counters for the client. A nil *Metrics is valid and
// records nothing, so library users pay for instrumentation only when
// they ask for it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks command outcomes and latencies.
type Metrics struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// New creates a Metrics instance with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zapcli",
		Subsystem: "s3",
		Name:      "requests_total",
		Help:      "Total commands executed, partitioned by operation and outcome.",
	}, []string{"op", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "zapcli",
		Subsystem: "s3",
		Name:      "request_duration_seconds",
		Help:      "Histogram of command round-trip latencies.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "zapcli",
		Subsystem: "s3",
		Name:      "inflight_requests",
		Help:      "Current number of in-flight commands.",
	})

	reg.MustRegister(requests, latency, inflight)

	return &Metrics{
		reg:      reg,
		requests: requests,
		latency:  latency,
		inflight: inflight,
	}
}

// Registry exposes the underlying registry for scraping or pushing.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Begin marks a command as started and returns a done func that records
// the outcome ("ok", "redirect", "throttled", "not_found", ...).
func (m *Metrics) Begin(op string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	m.inflight.Inc()
	start := time.Now()
	return func(outcome string) {
		m.inflight.Dec()
		m.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(op, outcome).Inc()
	}
}
