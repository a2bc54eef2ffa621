// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

/*
client.go - PMS API Client

This file provides the core Client struct and HTTP communication layer for
the upstream Property Management System.

The upstream API is XML-flavored: every endpoint wraps its payload in a
<PMSResponse status="ok|error"> envelope. The client validates the envelope
and decodes into the typed records from internal/models, so nothing above
the adapter ever sees raw upstream payloads.

Client features:
  - X-PMS-Token authentication plus site ID on every request
  - separate short-timeout client for the cheap connectivity probe
  - outbound rate limiting (golang.org/x/time/rate)
  - error taxonomy: ErrPMSUnavailable for transport/auth failures,
    MalformedResponseError for schema violations

No retry logic lives here. Retries are the orchestrator's responsibility
so partial-run accounting stays correct.

Related files:
  - connection.go: basic and full connectivity probes
  - bookings.go, guests.go, rooms.go, operations.go, facilities.go:
    typed domain fetchers with pagination
  - circuit_breaker.go: gobreaker wrapper
*/

//nolint:staticcheck // File documentation, not package doc
package pms

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/lodgelink/lodgelink/internal/config"
	"github.com/lodgelink/lodgelink/internal/metrics"
	"github.com/lodgelink/lodgelink/internal/models"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// API is the adapter interface consumed by the sync orchestrator, the
// reconciliation read path and the HTTP handlers. Implemented by Client
// for production, by CircuitBreakerClient for protected production use
// and by stubs in tests.
//
// All methods are safe for concurrent use.
type API interface {
	Ping(ctx context.Context) error
	TestBasicConnection(ctx context.Context) *models.ConnectionTestResult
	TestConnection(ctx context.Context) *models.ConnectionDiagnostics
	GetBookings(ctx context.Context) ([]models.ExternalBookingRecord, error)
	GetGuests(ctx context.Context) ([]models.ExternalGuestRecord, error)
	GetRooms(ctx context.Context) ([]models.Room, error)
	GetHousekeepingTasks(ctx context.Context) ([]models.HousekeepingTask, error)
	GetMaintenanceTickets(ctx context.Context) ([]models.MaintenanceTicket, error)
	GetFacilities(ctx context.Context) ([]models.Facility, error)
	GetAmenities(ctx context.Context) ([]models.Amenity, error)
}

// Client handles communication with the upstream PMS API.
//
// The client is an explicit instance constructed from configuration and
// passed by reference into the orchestrator and the reconciliation read
// path. Thread safety: safe for concurrent use, each request builds its
// own http.Request.
type Client struct {
	baseURL    string
	siteID     string
	token      string
	pageSize   int
	httpClient *http.Client
	pingClient *http.Client // short timeout for the cheap probe
	limiter    *rate.Limiter
}

// NewClient creates a PMS client from configuration.
func NewClient(cfg config.PMSConfig) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 6
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 6
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		siteID:     cfg.SiteID,
		token:      cfg.Token,
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		pingClient: &http.Client{Timeout: cfg.PingTimeout},
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), burst),
	}
}

// envelopeHeader carries the status attribute and message every upstream
// envelope starts with. Endpoint-specific envelopes embed it.
type envelopeHeader struct {
	Status  string `xml:"status,attr"`
	Message string `xml:"Message"`
}

func (h envelopeHeader) envelopeStatus() (status, message string) {
	return h.Status, h.Message
}

// envelope is satisfied by every endpoint-specific response envelope via
// the embedded envelopeHeader.
type envelope interface {
	envelopeStatus() (status, message string)
}

// requestConfig holds configuration for building one upstream request.
type requestConfig struct {
	endpoint string
	query    url.Values
	probe    bool // use the short-timeout ping client
}

// doRequest executes an authenticated upstream request and decodes the XML
// envelope into result. The envelope's status attribute is validated after
// decoding.
func (c *Client) doRequest(ctx context.Context, cfg requestConfig, result envelope) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrPMSUnavailable, err)
	}

	query := cfg.query
	if query == nil {
		query = url.Values{}
	}
	query.Set("siteId", c.siteID)

	reqURL := c.baseURL + cfg.endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-PMS-Token", c.token)
	req.Header.Set("Accept", "application/xml")

	httpClient := c.httpClient
	if cfg.probe {
		httpClient = c.pingClient
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	metrics.PMSRequestDuration.WithLabelValues(cfg.endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PMSRequestErrors.WithLabelValues(cfg.endpoint, "unavailable").Inc()
		return fmt.Errorf("%w: %v", ErrPMSUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.PMSRequestErrors.WithLabelValues(cfg.endpoint, "unavailable").Inc()
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%w: unexpected status %d from %s: %s", ErrPMSUnavailable, resp.StatusCode, cfg.endpoint, body)
	}

	if err := xml.NewDecoder(resp.Body).Decode(result); err != nil {
		metrics.PMSRequestErrors.WithLabelValues(cfg.endpoint, "malformed").Inc()
		return &MalformedResponseError{Endpoint: cfg.endpoint, Reason: "xml decode failed", Err: err}
	}

	switch status, message := result.envelopeStatus(); status {
	case "ok":
		return nil
	case "error":
		metrics.PMSRequestErrors.WithLabelValues(cfg.endpoint, "unavailable").Inc()
		return fmt.Errorf("%w: upstream reported error on %s: %s", ErrPMSUnavailable, cfg.endpoint, message)
	default:
		metrics.PMSRequestErrors.WithLabelValues(cfg.endpoint, "malformed").Inc()
		return &MalformedResponseError{Endpoint: cfg.endpoint, Reason: fmt.Sprintf("unknown envelope status %q", status)}
	}
}

// pageQuery builds the pagination query for one page (1-based).
func pageQuery(page, pageSize int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))
	return query
}

// readBodyForError reads up to maxErrorBodySize of a response body for
// error reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}

// parsePMSTime parses the timestamp formats the upstream emits. Dates come
// back either as bare dates or as RFC3339-ish datetimes without a zone.
func parsePMSTime(endpoint, field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, &MalformedResponseError{Endpoint: endpoint, Reason: fmt.Sprintf("missing %s", field)}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &MalformedResponseError{Endpoint: endpoint, Reason: fmt.Sprintf("unparseable %s %q", field, value)}
}
