// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package models

// SyncResponse is the body returned by POST /api/v1/sync.
//
// A partial run is still a transport-level success: Success stays true and
// the non-fatal aggregate error is carried in Error so the caller can see
// exactly which domains need a retry.
type SyncResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Status  *SyncRun `json:"status"`
	Error   string   `json:"error,omitempty"`
}

// ErrorResponse is the generic error body for 4xx/5xx responses.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Status  *SyncRun `json:"status,omitempty"`
}

// TestConnectionResponse is the body returned by the PMS test-connection
// endpoint. Transport status is 200 whenever the probe itself ran, even if
// the PMS turned out to be unreachable; 500 is reserved for unexpected
// internal failures.
type TestConnectionResponse struct {
	Success     bool                  `json:"success"`
	Message     string                `json:"message"`
	IsConnected bool                  `json:"isConnected"`
	BasicTest   *ConnectionTestResult `json:"basicTest"`
	FullTest    *ConnectionTestResult `json:"fullTest,omitempty"`
}

// HealthResponse is the body returned by the health endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
