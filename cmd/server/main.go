// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

// LodgeLink bridges a third-party Property Management System into local
// storage: it verifies upstream connectivity, pulls bookings, guests,
// rooms, housekeeping tasks, maintenance tickets, facilities and
// amenities, reconciles duplicated guest identities and serves the
// result over a small HTTP API.
//
// Configuration comes from a YAML file (CONFIG_PATH or the default
// search paths) layered under environment variables, e.g.:
//
//	PMS_URL=https://pms.example-retreat.com \
//	PMS_SITE_ID=site-42 \
//	PMS_TOKEN=secret \
//	lodgelink
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lodgelink/lodgelink/internal/api"
	"github.com/lodgelink/lodgelink/internal/config"
	"github.com/lodgelink/lodgelink/internal/logging"
	"github.com/lodgelink/lodgelink/internal/pms"
	"github.com/lodgelink/lodgelink/internal/store"
	"github.com/lodgelink/lodgelink/internal/supervisor"
	"github.com/lodgelink/lodgelink/internal/supervisor/services"
	"github.com/lodgelink/lodgelink/internal/sync"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", Version).
		Str("pms_url", cfg.PMS.URL).
		Str("store_path", cfg.Store.Path).
		Bool("periodic_sync", cfg.Sync.Enabled).
		Msg("Starting LodgeLink")

	st, err := store.NewBadgerStore(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open local store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing local store")
		}
	}()

	// Circuit breaker protects the sync path from a dead or slow upstream.
	client := pms.NewCircuitBreakerClient(cfg.PMS)
	if err := client.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("PMS not reachable at startup (will retry)")
	} else {
		logging.Info().Msg("Connected to PMS")
	}

	orchestrator := sync.NewOrchestrator(client, st, cfg.Sync)

	handlers := api.NewHandlers(client, st, orchestrator, Version)
	router := api.NewRouter(handlers, cfg.Security)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddSyncService(orchestrator)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
		os.Exit(1)
	}

	logging.Info().Msg("LodgeLink stopped")
}
