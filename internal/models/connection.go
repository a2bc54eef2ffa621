// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package models

import "time"

// ConnectionTestResult is the outcome of one connectivity probe against
// the PMS. Produced fresh per call, never persisted.
type ConnectionTestResult struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Endpoint  string    `json:"endpoint,omitempty"`
	LatencyMS int64     `json:"latencyMs"`
	CheckedAt time.Time `json:"checkedAt"`
}

// ConnectionDiagnostics aggregates the basic and full connectivity probes
// for the test-connection endpoint.
type ConnectionDiagnostics struct {
	Success     bool                  `json:"success"`
	Message     string                `json:"message"`
	IsConnected bool                  `json:"isConnected"`
	BasicTest   *ConnectionTestResult `json:"basicTest"`
	FullTest    *ConnectionTestResult `json:"fullTest,omitempty"`
}
