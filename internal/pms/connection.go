// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package pms

import (
	"context"
	"fmt"
	"time"

	"github.com/lodgelink/lodgelink/internal/logging"
	"github.com/lodgelink/lodgelink/internal/metrics"
	"github.com/lodgelink/lodgelink/internal/models"
)

// pingEndpoint is the cheapest authenticated call the upstream offers.
const pingEndpoint = "/api/v1/ping"

// pingEnvelope is the ping response envelope; it carries no payload.
type pingEnvelope struct {
	envelopeHeader
}

// Ping issues the cheap authenticated handshake with the short probe
// timeout. Returns ErrPMSUnavailable on any transport or auth failure.
func (c *Client) Ping(ctx context.Context) error {
	var env pingEnvelope
	return c.doRequest(ctx, requestConfig{endpoint: pingEndpoint, probe: true}, &env)
}

// TestBasicConnection probes basic reachability. It never returns an
// error: timeouts, DNS failures and non-2xx responses are reported inside
// the result with the underlying message.
func (c *Client) TestBasicConnection(ctx context.Context) *models.ConnectionTestResult {
	start := time.Now()
	err := c.Ping(ctx)
	result := &models.ConnectionTestResult{
		Endpoint:  pingEndpoint,
		LatencyMS: time.Since(start).Milliseconds(),
		CheckedAt: time.Now().UTC(),
	}

	if err != nil {
		result.Success = false
		result.Message = fmt.Sprintf("PMS unreachable: %v", err)
		metrics.PMSConnectionTests.WithLabelValues("basic", "failure").Inc()
		logging.Warn().Err(err).Int64("latency_ms", result.LatencyMS).Msg("Basic PMS connection test failed")
		return result
	}

	result.Success = true
	result.Message = "PMS reachable and credentials accepted"
	metrics.PMSConnectionTests.WithLabelValues("basic", "success").Inc()
	return result
}

// TestConnection runs the basic probe and, only if it passes, one
// representative authenticated domain fetch (the smallest bookings page)
// to validate that parsed round-trips work end to end.
//
// When the basic probe fails, the representative fetch is never attempted
// and the diagnostics report isConnected=false.
func (c *Client) TestConnection(ctx context.Context) *models.ConnectionDiagnostics {
	basic := c.TestBasicConnection(ctx)
	if !basic.Success {
		return &models.ConnectionDiagnostics{
			Success:     false,
			Message:     "Basic connectivity test failed; full test skipped",
			IsConnected: false,
			BasicTest:   basic,
		}
	}

	full := c.testRepresentativeFetch(ctx)
	diag := &models.ConnectionDiagnostics{
		Success:     full.Success,
		IsConnected: full.Success,
		BasicTest:   basic,
		FullTest:    full,
	}
	if full.Success {
		diag.Message = "PMS connection fully operational"
	} else {
		diag.Message = "PMS reachable but authenticated data fetch failed"
	}
	return diag
}

// testRepresentativeFetch pulls the smallest bookings page to prove the
// authenticated, parsed path works.
func (c *Client) testRepresentativeFetch(ctx context.Context) *models.ConnectionTestResult {
	start := time.Now()
	_, err := c.getBookingsPage(ctx, 1, 1)
	result := &models.ConnectionTestResult{
		Endpoint:  bookingsEndpoint,
		LatencyMS: time.Since(start).Milliseconds(),
		CheckedAt: time.Now().UTC(),
	}

	if err != nil {
		result.Success = false
		result.Message = fmt.Sprintf("representative fetch failed: %v", err)
		metrics.PMSConnectionTests.WithLabelValues("full", "failure").Inc()
		logging.Warn().Err(err).Msg("Full PMS connection test failed")
		return result
	}

	result.Success = true
	result.Message = "representative bookings fetch succeeded"
	metrics.PMSConnectionTests.WithLabelValues("full", "success").Inc()
	return result
}

// fetchAllPages loops a paginated endpoint until a short page signals the
// end of the set. fetch is called with 1-based page numbers.
func fetchAllPages[T any](pageSize int, fetch func(page, pageSize int) ([]T, error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		batch, err := fetch(page, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			return all, nil
		}
	}
}

// requireID validates the external identifier every upstream record must
// carry. A record without one cannot be upserted idempotently.
func requireID(endpoint, kind, id string) error {
	if id == "" {
		return &MalformedResponseError{Endpoint: endpoint, Reason: fmt.Sprintf("%s record missing id", kind)}
	}
	return nil
}
