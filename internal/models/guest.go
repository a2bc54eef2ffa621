// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package models

import "time"

// DerivedBookingGuest is a guest-shaped record projected out of one
// booking's embedded contact fields. One per booking; the same human may
// appear many times with inconsistent casing and whitespace, which is why
// the reconciliation engine normalizes before matching.
type DerivedBookingGuest struct {
	BookingID string    `json:"bookingId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Amount    float64   `json:"amount"`
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Status    string    `json:"status"`
}

// BookingRef is one entry in a canonical identity's booking history.
type BookingRef struct {
	BookingID string    `json:"bookingId"`
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
}

// GuestSource records where a canonical identity's display fields came from.
type GuestSource string

// Canonical identity sources.
const (
	GuestSourceRoster  GuestSource = "roster"  // roster entry only, no bookings matched
	GuestSourceBooking GuestSource = "booking" // synthesized from bookings, no roster entry
	GuestSourceMerged  GuestSource = "merged"  // roster entry with matched bookings
)

// CanonicalGuestIdentity is the reconciliation engine's output: one
// deduplicated guest across the roster and the bookings-derived set, with
// a merged booking history and recomputed totals.
//
// Identities live for one reconciliation run only; they are never persisted
// by this layer.
type CanonicalGuestIdentity struct {
	GuestID        string       `json:"guestId,omitempty"` // roster ID when a roster entry matched
	Source         GuestSource  `json:"source"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	TotalBookings  int          `json:"totalBookings"`
	TotalSpent     float64      `json:"totalSpent"`
	BookingHistory []BookingRef `json:"bookingHistory"`
}

// ComparisonStats summarizes a reconciliation run for diagnostics.
type ComparisonStats struct {
	TotalUniqueGuests     int `json:"totalUniqueGuests"`
	GuestsWithBookings    int `json:"guestsWithBookings"`
	GuestsWithoutBookings int `json:"guestsWithoutBookings"`
	GuestsWithRealEmail   int `json:"guestsWithRealEmail"`
	GuestsWithSpend       int `json:"guestsWithSpend"`
	GuestsWithHistory     int `json:"guestsWithHistory"`
}

// GuestComparison is the full diagnostic payload: the canonical identity
// set partitioned by booking history, plus summary counts.
type GuestComparison struct {
	AllGuests             []CanonicalGuestIdentity `json:"allGuests"`
	GuestsWithBookings    []CanonicalGuestIdentity `json:"guestsWithBookings"`
	GuestsWithoutBookings []CanonicalGuestIdentity `json:"guestsWithoutBookings"`
	ComparisonStats       ComparisonStats          `json:"comparisonStats"`
}
