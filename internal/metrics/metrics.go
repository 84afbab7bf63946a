// SecureGuardian - Personal Security Monitoring and Alerting
// Copyright 2026 SecureGuardian contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/secureguardian/guardian

// Package metrics registers the Prometheus collectors for the guardian
// server and exposes the /metrics handler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors used across the server.
type Metrics struct {
	registry *prometheus.Registry

	ScansTotal      prometheus.Counter
	ScanErrors      prometheus.Counter
	ScanDuration    prometheus.Histogram
	FindingsTotal   *prometheus.CounterVec
	AlertsPublished *prometheus.CounterVec
	EmergenciesOpen prometheus.Gauge
	WSClients       prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New creates the metric set on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ScansTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "guardian",
			Name:      "scans_total",
			Help:      "Total number of threat scans performed.",
		}),
		ScanErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "guardian",
			Name:      "scan_errors_total",
			Help:      "Total number of scans that returned an error.",
		}),
		ScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "guardian",
			Name:      "scan_duration_seconds",
			Help:      "Threat scan duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FindingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guardian",
			Name:      "findings_total",
			Help:      "Threat findings by type.",
		}, []string{"type"}),
		AlertsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guardian",
			Name:      "alerts_published_total",
			Help:      "Alerts published to pub/sub topics, by event.",
		}, []string{"event"}),
		EmergenciesOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "guardian",
			Name:      "emergencies_active",
			Help:      "Currently active emergency alerts.",
		}),
		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "guardian",
			Name:      "websocket_clients",
			Help:      "Connected websocket clients.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guardian",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "guardian",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveScan records one scan outcome.
func (m *Metrics) ObserveScan(d time.Duration, err error) {
	m.ScansTotal.Inc()
	m.ScanDuration.Observe(d.Seconds())
	if err != nil {
		m.ScanErrors.Inc()
	}
}
