// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package models

import (
	"fmt"
	"time"
)

// SyncDomain is one category of synchronized PMS data.
type SyncDomain string

// Synchronized data domains. A full sync covers all of them.
const (
	DomainRooms        SyncDomain = "rooms"
	DomainBookings     SyncDomain = "bookings"
	DomainHousekeeping SyncDomain = "housekeeping"
	DomainMaintenance  SyncDomain = "maintenance"
	DomainFacilities   SyncDomain = "facilities"
	DomainAmenities    SyncDomain = "amenities"
)

// AllDomains returns every sync domain in a stable order.
func AllDomains() []SyncDomain {
	return []SyncDomain{
		DomainRooms,
		DomainBookings,
		DomainHousekeeping,
		DomainMaintenance,
		DomainFacilities,
		DomainAmenities,
	}
}

// DomainSelection chooses which domains a sync run covers.
type DomainSelection struct {
	Rooms        bool `json:"rooms"`
	Bookings     bool `json:"bookings"`
	Housekeeping bool `json:"housekeeping"`
	Maintenance  bool `json:"maintenance"`
	Facilities   bool `json:"facilities"`
	Amenities    bool `json:"amenities"`
}

// FullSelection selects every domain.
func FullSelection() DomainSelection {
	return DomainSelection{
		Rooms:        true,
		Bookings:     true,
		Housekeeping: true,
		Maintenance:  true,
		Facilities:   true,
		Amenities:    true,
	}
}

// ParseSyncType converts a caller-supplied sync type ("full" or a single
// domain name) into a DomainSelection. Unknown values are a validation
// error and must never start a run.
func ParseSyncType(syncType string) (DomainSelection, error) {
	switch SyncDomain(syncType) {
	case "full":
		return FullSelection(), nil
	case DomainRooms:
		return DomainSelection{Rooms: true}, nil
	case DomainBookings:
		return DomainSelection{Bookings: true}, nil
	case DomainHousekeeping:
		return DomainSelection{Housekeeping: true}, nil
	case DomainMaintenance:
		return DomainSelection{Maintenance: true}, nil
	case DomainFacilities:
		return DomainSelection{Facilities: true}, nil
	case DomainAmenities:
		return DomainSelection{Amenities: true}, nil
	default:
		return DomainSelection{}, fmt.Errorf("invalid sync type %q", syncType)
	}
}

// Selected returns the selected domains in the stable AllDomains order.
func (s DomainSelection) Selected() []SyncDomain {
	var domains []SyncDomain
	for _, d := range AllDomains() {
		if s.Includes(d) {
			domains = append(domains, d)
		}
	}
	return domains
}

// Includes reports whether the selection covers a domain.
func (s DomainSelection) Includes(d SyncDomain) bool {
	switch d {
	case DomainRooms:
		return s.Rooms
	case DomainBookings:
		return s.Bookings
	case DomainHousekeeping:
		return s.Housekeeping
	case DomainMaintenance:
		return s.Maintenance
	case DomainFacilities:
		return s.Facilities
	case DomainAmenities:
		return s.Amenities
	default:
		return false
	}
}

// SyncStatus is the lifecycle state of a sync run.
type SyncStatus string

// Sync run states. A run starts Running and finalizes to exactly one of
// the terminal states.
const (
	SyncStatusRunning SyncStatus = "running"
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusPartial SyncStatus = "partial"
	SyncStatusError   SyncStatus = "error"
)

// DomainStatus is the outcome of one domain within a run.
type DomainStatus string

// Per-domain outcomes.
const (
	DomainStatusSuccess DomainStatus = "success"
	DomainStatusFailed  DomainStatus = "failed"
	DomainStatusSkipped DomainStatus = "skipped"
)

// DomainResult records one domain's outcome within a sync run.
type DomainResult struct {
	Domain        SyncDomain   `json:"domain"`
	Status        DomainStatus `json:"status"`
	RecordsSynced int          `json:"recordsSynced"`
	DurationMS    int64        `json:"durationMs"`
	Error         string       `json:"error,omitempty"`
}

// SyncRun is the aggregate report of one orchestrator invocation.
//
// It is created when the run starts, mutated as each domain completes and
// finalized before being returned to the caller. The orchestrator keeps
// only the most recent run in memory; durable history is a concern of the
// surrounding system.
type SyncRun struct {
	ID               string                       `json:"id"`
	RequestedDomains []SyncDomain                 `json:"requestedDomains"`
	Domains          map[SyncDomain]*DomainResult `json:"domains"`
	Status           SyncStatus                   `json:"status"`
	StartedAt        time.Time                    `json:"startedAt"`
	CompletedAt      time.Time                    `json:"completedAt"`
	DurationMS       int64                        `json:"durationMs"`
	Error            string                       `json:"error,omitempty"`
}

// Finalize computes the aggregate status from per-domain results and
// stamps the completion time.
//
// Rules (resilience contract):
//   - every selected domain succeeded       -> success
//   - some succeeded, some failed/skipped   -> partial
//   - none succeeded                        -> error
func (r *SyncRun) Finalize(now time.Time) {
	succeeded, failed := 0, 0
	for _, res := range r.Domains {
		switch res.Status {
		case DomainStatusSuccess:
			succeeded++
		case DomainStatusFailed, DomainStatusSkipped:
			failed++
		}
	}

	switch {
	case failed == 0 && succeeded > 0:
		r.Status = SyncStatusSuccess
	case succeeded > 0:
		r.Status = SyncStatusPartial
	default:
		r.Status = SyncStatusError
		if r.Error == "" {
			r.Error = "no domains synced"
		}
	}

	r.CompletedAt = now
	r.DurationMS = now.Sub(r.StartedAt).Milliseconds()
}
