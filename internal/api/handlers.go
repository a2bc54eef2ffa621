// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

/*
handlers.go - HTTP Handlers

Request handlers for the PMS bridge API: sync triggering and status,
connectivity diagnostics, the guest comparison diagnostic and health
probes. Handlers stay thin; the orchestrator, the PMS adapter and the
reconciliation engine do the actual work.
*/

//nolint:staticcheck // File documentation, not package doc
package api

import (
	"errors"
	"net/http"

	"github.com/lodgelink/lodgelink/internal/logging"
	"github.com/lodgelink/lodgelink/internal/models"
	"github.com/lodgelink/lodgelink/internal/pms"
	"github.com/lodgelink/lodgelink/internal/reconcile"
	"github.com/lodgelink/lodgelink/internal/store"
	syncpkg "github.com/lodgelink/lodgelink/internal/sync"
)

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	client       pms.API
	store        store.Store
	orchestrator *syncpkg.Orchestrator
	version      string
}

// NewHandlers creates the handler set.
func NewHandlers(client pms.API, st store.Store, orchestrator *syncpkg.Orchestrator, version string) *Handlers {
	return &Handlers{
		client:       client,
		store:        st,
		orchestrator: orchestrator,
		version:      version,
	}
}

// syncRequest is the body of POST /api/v1/sync.
type syncRequest struct {
	SyncType string `json:"syncType"`
}

// Sync handles POST /api/v1/sync. The body selects either a full sync
// or a single domain; an unknown sync type never starts a run.
func (h *Handlers) Sync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	selection, err := models.ParseSyncType(req.SyncType)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid sync type")
		return
	}

	run, err := h.orchestrator.Run(r.Context(), selection)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, syncpkg.ErrSyncInProgress) {
			status = http.StatusConflict
		}
		respondJSON(w, status, models.SyncResponse{
			Success: false,
			Error:   err.Error(),
			Status:  run,
		})
		return
	}

	// A run where every selected domain failed is reported as a server
	// error, not a successful request with a bad payload.
	if run.Status == models.SyncStatusError {
		respondJSON(w, http.StatusInternalServerError, models.SyncResponse{
			Success: false,
			Error:   run.Error,
			Status:  run,
		})
		return
	}

	respondJSON(w, http.StatusOK, models.SyncResponse{
		Success: true,
		Message: "Sync completed with status " + string(run.Status),
		Status:  run,
	})
}

// SyncStatus handles GET /api/v1/sync/status.
func (h *Handlers) SyncStatus(w http.ResponseWriter, r *http.Request) {
	run := h.orchestrator.LastRun()
	if run == nil {
		respondJSON(w, http.StatusOK, map[string]string{"status": "idle"})
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// TestConnection handles GET and POST /api/v1/pms/test-connection,
// running the staged connectivity diagnostics against the upstream.
func (h *Handlers) TestConnection(w http.ResponseWriter, r *http.Request) {
	diag := h.client.TestConnection(r.Context())
	respondJSON(w, http.StatusOK, models.TestConnectionResponse{
		Success:     diag.Success,
		Message:     diag.Message,
		IsConnected: diag.IsConnected,
		BasicTest:   diag.BasicTest,
		FullTest:    diag.FullTest,
	})
}

// GuestComparison handles GET /api/v1/guests/comparison. It fetches the
// roster and the booking stream live from the upstream, reconciles them
// and returns the canonical identity set with summary statistics.
func (h *Handlers) GuestComparison(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roster, err := h.client.GetGuests(ctx)
	if err != nil {
		h.respondUpstreamError(w, err, "fetch guest roster")
		return
	}

	bookings, err := h.client.GetBookings(ctx)
	if err != nil {
		h.respondUpstreamError(w, err, "fetch bookings")
		return
	}

	comparison := reconcile.Reconcile(roster, reconcile.DeriveBookingGuests(bookings))
	respondJSON(w, http.StatusOK, comparison)
}

// respondUpstreamError maps adapter errors to HTTP responses. An
// unreachable upstream is a gateway problem; a malformed payload is
// reported as such so operators can tell the two failure classes apart.
func (h *Handlers) respondUpstreamError(w http.ResponseWriter, err error, action string) {
	logging.Warn().Err(err).Str("action", action).Msg("Upstream PMS request failed")
	if pms.IsMalformed(err) {
		respondError(w, http.StatusBadGateway, "PMS returned a malformed response")
		return
	}
	if errors.Is(err, pms.ErrPMSUnavailable) {
		respondError(w, http.StatusBadGateway, "PMS is unreachable")
		return
	}
	respondError(w, http.StatusInternalServerError, "Internal error")
}

// HealthLive handles GET /api/v1/health/live. Process liveness only.
func (h *Handlers) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Version: h.version})
}

// HealthReady handles GET /api/v1/health/ready. Ready means the local
// store answers queries; upstream reachability is deliberately not part
// of readiness, a dead PMS must not take the bridge out of rotation.
func (h *Handlers) HealthReady(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Count(r.Context(), models.DomainRooms); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, models.HealthResponse{Status: "unavailable", Version: h.version})
		return
	}
	respondJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Version: h.version})
}
