// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

// Package api provides HTTP routing for the PMS bridge using Chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lodgelink/lodgelink/internal/config"
)

// Router assembles the HTTP surface from its handlers and security
// configuration.
type Router struct {
	handlers *Handlers
	security config.SecurityConfig
}

// NewRouter creates a router.
func NewRouter(handlers *Handlers, security config.SecurityConfig) *Router {
	return &Router{handlers: handlers, security: security}
}

// Setup wires all routes and the global middleware stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORSHandler(router.security))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handlers.HealthLive)
		r.Get("/ready", router.handlers.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SecurityHeaders)
		r.Use(RateLimiter(router.security))
		r.Use(PrometheusMetrics)

		r.Post("/sync", router.handlers.Sync)
		r.Get("/sync/status", router.handlers.SyncStatus)

		r.Get("/pms/test-connection", router.handlers.TestConnection)
		r.Post("/pms/test-connection", router.handlers.TestConnection)

		r.Get("/guests/comparison", router.handlers.GuestComparison)
	})

	return r
}
