// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

// Package metrics provides Prometheus instrumentation for LodgeLink:
// PMS request latency and errors, circuit breaker state, sync run
// outcomes, local store operations and API traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PMS adapter metrics
	PMSRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pms_request_duration_seconds",
			Help:    "Duration of upstream PMS requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	PMSRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pms_request_errors_total",
			Help: "Total number of failed upstream PMS requests",
		},
		[]string{"endpoint", "error_type"}, // error_type: unavailable, malformed
	)

	PMSConnectionTests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pms_connection_tests_total",
			Help: "Total number of PMS connectivity probes",
		},
		[]string{"probe", "result"}, // probe: basic, full; result: success, failure
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through the circuit breaker by outcome",
		},
		[]string{"name", "outcome"}, // outcome: success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current consecutive failure count seen by the circuit breaker",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Sync orchestrator metrics
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Total sync runs by aggregate status",
		},
		[]string{"status"}, // success, partial, error
	)

	SyncDomainDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_domain_duration_seconds",
			Help:    "Duration of one domain's fetch-and-upsert in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"domain"},
	)

	SyncDomainRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_domain_records_total",
			Help: "Total records upserted per domain",
		},
		[]string{"domain"},
	)

	SyncDomainErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_domain_errors_total",
			Help: "Total per-domain sync failures",
		},
		[]string{"domain"},
	)

	// Local store metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total local store operations",
		},
		[]string{"operation", "domain"}, // operation: upsert, get, list, delete
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total local store operation failures",
		},
		[]string{"operation", "domain"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)
