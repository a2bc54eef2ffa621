// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

/*
engine.go - Guest Reconciliation Engine

Merges two views of the guest population into one canonical set:

  - the roster (ExternalGuestRecord), the upstream's deduplicated guest
    list with lifetime totals
  - bookings-derived guests (DerivedBookingGuest), one guest-shaped
    record per booking, projected from the booking's embedded contact
    fields

Two passes. The merge pass groups derived booking-guests by identity
key, building an identity per group with accumulated spend and history.
The overlay pass walks the roster: where a key matches an existing
identity the roster's display fields and totals win (the roster is the
more authoritative source); unmatched roster guests become identities
with empty history.

Both passes resolve keys through ResolveIdentityKey, so a booking can
never attach to two different identities. Output ordering is made
deterministic by sorting, so identical inputs yield identical results
regardless of input order.
*/

//nolint:staticcheck // File documentation, not package doc
package reconcile

import (
	"sort"

	"github.com/lodgelink/lodgelink/internal/logging"
	"github.com/lodgelink/lodgelink/internal/models"
)

// DeriveBookingGuests projects one guest-shaped record out of every
// booking's embedded contact fields.
func DeriveBookingGuests(bookings []models.ExternalBookingRecord) []models.DerivedBookingGuest {
	derived := make([]models.DerivedBookingGuest, 0, len(bookings))
	for _, b := range bookings {
		derived = append(derived, models.DerivedBookingGuest{
			BookingID: b.ID,
			Name:      b.GuestName,
			Email:     b.GuestEmail,
			Phone:     b.GuestPhone,
			Amount:    b.Amount,
			CheckIn:   b.CheckIn,
			CheckOut:  b.CheckOut,
			Status:    b.Status,
		})
	}
	return derived
}

// identity is the engine's working state for one canonical guest.
type identity struct {
	guestID     string
	source      models.GuestSource
	name        string
	email       string
	phone       string
	rosterTotal *rosterTotals
	history     []models.BookingRef
	latestStay  int64 // unix nanos of the most recent check-in, name tie-break
}

type rosterTotals struct {
	bookings int
	spent    float64
}

// Reconcile merges the roster and the bookings-derived guests into the
// canonical identity set and its diagnostic partition.
func Reconcile(roster []models.ExternalGuestRecord, derived []models.DerivedBookingGuest) *models.GuestComparison {
	byKey := make(map[string]*identity)
	var unique []*identity // identities with an always-unique key

	// Sort a copy of the derived set so grouping and tie-breaks do not
	// depend on fetch order.
	sortedDerived := make([]models.DerivedBookingGuest, len(derived))
	copy(sortedDerived, derived)
	sort.Slice(sortedDerived, func(i, j int) bool {
		if !sortedDerived[i].CheckIn.Equal(sortedDerived[j].CheckIn) {
			return sortedDerived[i].CheckIn.Before(sortedDerived[j].CheckIn)
		}
		return sortedDerived[i].BookingID < sortedDerived[j].BookingID
	})

	// Merge pass: group derived booking-guests by identity key.
	for _, d := range sortedDerived {
		ref := models.BookingRef{
			BookingID: d.BookingID,
			CheckIn:   d.CheckIn,
			CheckOut:  d.CheckOut,
			Amount:    d.Amount,
			Status:    d.Status,
		}
		key := ResolveIdentityKey(d.Name, d.Email, d.Phone)

		if key.Unique {
			// No usable contact fields. One identity per booking so
			// unrelated anonymous guests are never merged.
			unique = append(unique, &identity{
				source:     models.GuestSourceBooking,
				name:       NormalizeName(d.Name),
				email:      NormalizeEmail(d.Email),
				phone:      NormalizePhone(d.Phone),
				history:    []models.BookingRef{ref},
				latestStay: d.CheckIn.UnixNano(),
			})
			continue
		}

		id, ok := byKey[key.Value]
		if !ok {
			byKey[key.Value] = &identity{
				source:     models.GuestSourceBooking,
				name:       NormalizeName(d.Name),
				email:      NormalizeEmail(d.Email),
				phone:      NormalizePhone(d.Phone),
				history:    []models.BookingRef{ref},
				latestStay: d.CheckIn.UnixNano(),
			}
			continue
		}

		id.history = append(id.history, ref)
		// Same key, possibly a different name spelling. Keep the name
		// from the most recent stay; the overlay pass overrides it when
		// a roster entry exists.
		if stay := d.CheckIn.UnixNano(); stay >= id.latestStay {
			id.latestStay = stay
			if n := NormalizeName(d.Name); n != "" {
				id.name = n
			}
		}
	}

	// Overlay pass: roster entries are authoritative for display fields.
	rosterMatches := 0
	for _, g := range roster {
		key := ResolveIdentityKey(g.Name, g.Email, g.Phone)
		totals := &rosterTotals{bookings: g.TotalBookings, spent: g.TotalSpent}

		if !key.Unique {
			if id, ok := byKey[key.Value]; ok {
				rosterMatches++
				id.guestID = g.ID
				id.source = models.GuestSourceMerged
				id.name = NormalizeName(g.Name)
				id.email = NormalizeEmail(g.Email)
				id.phone = NormalizePhone(g.Phone)
				id.rosterTotal = totals
				continue
			}
		}

		entry := &identity{
			guestID:     g.ID,
			source:      models.GuestSourceRoster,
			name:        NormalizeName(g.Name),
			email:       NormalizeEmail(g.Email),
			phone:       NormalizePhone(g.Phone),
			rosterTotal: totals,
		}
		if key.Unique {
			unique = append(unique, entry)
		} else {
			byKey[key.Value] = entry
		}
	}

	all := make([]models.CanonicalGuestIdentity, 0, len(byKey)+len(unique))
	for _, id := range byKey {
		all = append(all, finalizeIdentity(id))
	}
	for _, id := range unique {
		all = append(all, finalizeIdentity(id))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		if all[i].Email != all[j].Email {
			return all[i].Email < all[j].Email
		}
		if all[i].GuestID != all[j].GuestID {
			return all[i].GuestID < all[j].GuestID
		}
		return firstBookingID(all[i]) < firstBookingID(all[j])
	})

	comparison := &models.GuestComparison{AllGuests: all}
	for _, g := range all {
		if len(g.BookingHistory) > 0 {
			comparison.GuestsWithBookings = append(comparison.GuestsWithBookings, g)
			comparison.ComparisonStats.GuestsWithHistory++
		} else {
			comparison.GuestsWithoutBookings = append(comparison.GuestsWithoutBookings, g)
		}
		if IsRealEmail(g.Email) {
			comparison.ComparisonStats.GuestsWithRealEmail++
		}
		if g.TotalSpent > 0 {
			comparison.ComparisonStats.GuestsWithSpend++
		}
	}
	comparison.ComparisonStats.TotalUniqueGuests = len(all)
	comparison.ComparisonStats.GuestsWithBookings = len(comparison.GuestsWithBookings)
	comparison.ComparisonStats.GuestsWithoutBookings = len(comparison.GuestsWithoutBookings)

	logging.Debug().
		Int("roster", len(roster)).
		Int("derived", len(derived)).
		Int("canonical", len(all)).
		Int("roster_matches", rosterMatches).
		Msg("Guest reconciliation complete")

	return comparison
}

// finalizeIdentity converts working state into the output shape,
// resolving totals. A roster's nonzero spend is authoritative; a zero
// spend means "unknown upstream" and the derived sum is kept. A zero
// roster booking count is only trusted when no bookings actually
// matched.
func finalizeIdentity(id *identity) models.CanonicalGuestIdentity {
	sort.Slice(id.history, func(i, j int) bool {
		if !id.history[i].CheckIn.Equal(id.history[j].CheckIn) {
			return id.history[i].CheckIn.Before(id.history[j].CheckIn)
		}
		return id.history[i].BookingID < id.history[j].BookingID
	})

	var derivedSpend float64
	for _, ref := range id.history {
		derivedSpend += ref.Amount
	}

	totalBookings := len(id.history)
	totalSpent := derivedSpend
	if id.rosterTotal != nil {
		if id.rosterTotal.bookings > totalBookings {
			totalBookings = id.rosterTotal.bookings
		}
		if id.rosterTotal.spent != 0 {
			totalSpent = id.rosterTotal.spent
		}
	}

	history := id.history
	if history == nil {
		history = []models.BookingRef{}
	}

	return models.CanonicalGuestIdentity{
		GuestID:        id.guestID,
		Source:         id.source,
		Name:           id.name,
		Email:          id.email,
		Phone:          id.phone,
		TotalBookings:  totalBookings,
		TotalSpent:     totalSpent,
		BookingHistory: history,
	}
}

func firstBookingID(g models.CanonicalGuestIdentity) string {
	if len(g.BookingHistory) == 0 {
		return ""
	}
	return g.BookingHistory[0].BookingID
}
