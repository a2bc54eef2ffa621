// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package pms

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/lodgelink/lodgelink/internal/config"
	"github.com/lodgelink/lodgelink/internal/logging"
	"github.com/lodgelink/lodgelink/internal/metrics"
	"github.com/lodgelink/lodgelink/internal/models"
)

// CircuitBreakerClient wraps Client with circuit breaker protection so a
// dead or slow upstream PMS cannot cascade into the sync orchestrator.
//
// DETERMINISM NOTE: the breaker uses real time (via sony/gobreaker) for
// its interval and timeout calculations. Tests should exercise the
// wrapped client directly or stub the API interface, not the breaker.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a PMS client guarded by a circuit
// breaker. The circuit opens after a 60% failure rate across at least
// 10 requests, allows 3 probing requests in half-open state and waits
// 2 minutes before attempting recovery.
func NewCircuitBreakerClient(cfg config.PMSConfig) *CircuitBreakerClient {
	client := NewClient(cfg)
	cbName := "pms-api"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps one upstream call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			// Callers treat a rejected request like an unreachable upstream.
			return nil, fmt.Errorf("%w: %v", ErrPMSUnavailable, err)
		}

		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		counts := cbc.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// castSlice safely type-casts a circuit breaker result to a record slice.
func castSlice[T any](result interface{}, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.([]T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to a numeric metric value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to a string for logging.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Ping verifies upstream connectivity with circuit breaker protection.
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.Ping(ctx)
	})
	return err
}

// TestBasicConnection probes basic reachability. The probe intentionally
// bypasses the breaker: operators use it to check whether a tripped
// upstream has recovered, so it must reach the wire even when the
// circuit is open.
func (cbc *CircuitBreakerClient) TestBasicConnection(ctx context.Context) *models.ConnectionTestResult {
	return cbc.client.TestBasicConnection(ctx)
}

// TestConnection runs full diagnostics, bypassing the breaker like
// TestBasicConnection.
func (cbc *CircuitBreakerClient) TestConnection(ctx context.Context) *models.ConnectionDiagnostics {
	return cbc.client.TestConnection(ctx)
}

// GetBookings retrieves reservations with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetBookings(ctx context.Context) ([]models.ExternalBookingRecord, error) {
	return castSlice[models.ExternalBookingRecord](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetBookings(ctx)
	}))
}

// GetGuests retrieves the guest roster with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetGuests(ctx context.Context) ([]models.ExternalGuestRecord, error) {
	return castSlice[models.ExternalGuestRecord](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetGuests(ctx)
	}))
}

// GetRooms retrieves the room inventory with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetRooms(ctx context.Context) ([]models.Room, error) {
	return castSlice[models.Room](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetRooms(ctx)
	}))
}

// GetHousekeepingTasks retrieves housekeeping tasks with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetHousekeepingTasks(ctx context.Context) ([]models.HousekeepingTask, error) {
	return castSlice[models.HousekeepingTask](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetHousekeepingTasks(ctx)
	}))
}

// GetMaintenanceTickets retrieves maintenance tickets with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetMaintenanceTickets(ctx context.Context) ([]models.MaintenanceTicket, error) {
	return castSlice[models.MaintenanceTicket](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetMaintenanceTickets(ctx)
	}))
}

// GetFacilities retrieves facilities with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetFacilities(ctx context.Context) ([]models.Facility, error) {
	return castSlice[models.Facility](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetFacilities(ctx)
	}))
}

// GetAmenities retrieves amenities with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetAmenities(ctx context.Context) ([]models.Amenity, error) {
	return castSlice[models.Amenity](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetAmenities(ctx)
	}))
}
