// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package reconcile

import (
	"reflect"
	"testing"
	"time"

	"github.com/lodgelink/lodgelink/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func derivedGuest(bookingID, name, email, phone string, amount float64, checkIn time.Time) models.DerivedBookingGuest {
	return models.DerivedBookingGuest{
		BookingID: bookingID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Amount:    amount,
		CheckIn:   checkIn,
		CheckOut:  checkIn.AddDate(0, 0, 2),
		Status:    "confirmed",
	}
}

func findByEmail(t *testing.T, guests []models.CanonicalGuestIdentity, email string) models.CanonicalGuestIdentity {
	t.Helper()
	for _, g := range guests {
		if g.Email == email {
			return g
		}
	}
	t.Fatalf("no canonical guest with email %q", email)
	return models.CanonicalGuestIdentity{}
}

func TestResolveIdentityKey(t *testing.T) {
	tests := []struct {
		name       string
		gName      string
		email      string
		phone      string
		wantValue  string
		wantUnique bool
	}{
		{
			name:      "email wins",
			gName:     "Jane Doe",
			email:     " Jane@Example.COM ",
			phone:     "555-0101",
			wantValue: "email:jane@example.com",
		},
		{
			name:      "composite fallback",
			gName:     "  Jane   Doe ",
			phone:     "(555) 010-1",
			wantValue: "contact:jane doe|5550101",
		},
		{
			name:      "phone only",
			phone:     "5550101",
			wantValue: "contact:|5550101",
		},
		{
			name:       "fully empty is unique",
			wantUnique: true,
		},
		{
			name:       "whitespace-only is unique",
			gName:      "   ",
			phone:      " - ",
			wantUnique: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := ResolveIdentityKey(tt.gName, tt.email, tt.phone)
			if key.Unique != tt.wantUnique {
				t.Fatalf("Unique = %v, want %v", key.Unique, tt.wantUnique)
			}
			if !tt.wantUnique && key.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", key.Value, tt.wantValue)
			}
		})
	}
}

func TestNormalizers(t *testing.T) {
	if got := NormalizeEmail("  Ada@Example.NET "); got != "ada@example.net" {
		t.Errorf("NormalizeEmail = %q", got)
	}
	if got := NormalizePhone("+1 (555) 010-1234"); got != "15550101234" {
		t.Errorf("NormalizePhone = %q", got)
	}
	if got := NormalizeName("  Ada \t Lovelace  "); got != "Ada Lovelace" {
		t.Errorf("NormalizeName = %q", got)
	}
}

func TestIsRealEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ada@lovelace.dev", true},
		{"Guest@Example.COM", false},
		{"x@example.org", false},
		{"x@example.net", false},
		{"x@test.com", false},
		{"", false},
		{"not-an-email", false},
		{"trailing@", false},
		{"invalid@pms.local", false},
		{"INVALID@hotel.com", false},
		{"guest-placeholder@hotel.com", false},
		{"x@placeholder.email", false},
		{"jane@hotel.com", true},
	}
	for _, tt := range tests {
		if got := IsRealEmail(tt.email); got != tt.want {
			t.Errorf("IsRealEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestReconcileMergesBookingsByEmail(t *testing.T) {
	derived := []models.DerivedBookingGuest{
		derivedGuest("b1", "jane doe ", "jane@x.com", "", 100, day(1)),
		derivedGuest("b2", "Jane Doe", "JANE@x.com", "", 50, day(5)),
		derivedGuest("b3", "Bob", "bob@y.com", "", 80, day(2)),
	}

	result := Reconcile(nil, derived)
	if got := result.ComparisonStats.TotalUniqueGuests; got != 2 {
		t.Fatalf("expected 2 canonical guests, got %d", got)
	}

	jane := findByEmail(t, result.AllGuests, "jane@x.com")
	if len(jane.BookingHistory) != 2 {
		t.Fatalf("expected 2 bookings for jane, got %d", len(jane.BookingHistory))
	}
	if jane.TotalSpent != 150 {
		t.Errorf("expected derived spend 150, got %.2f", jane.TotalSpent)
	}
	if jane.TotalBookings != 2 {
		t.Errorf("expected 2 total bookings, got %d", jane.TotalBookings)
	}
	if jane.Source != models.GuestSourceBooking {
		t.Errorf("expected booking source, got %s", jane.Source)
	}
	// History ordered by stay date.
	if jane.BookingHistory[0].BookingID != "b1" || jane.BookingHistory[1].BookingID != "b2" {
		t.Errorf("unexpected history order: %+v", jane.BookingHistory)
	}
	// No roster entry, so the most recent stay's name wins.
	if jane.Name != "Jane Doe" {
		t.Errorf("expected name from most recent stay, got %q", jane.Name)
	}
}

func TestReconcileRosterOverlayWins(t *testing.T) {
	roster := []models.ExternalGuestRecord{
		{ID: "g1", Name: "Jane Doe", Email: "a@x.com", Phone: "555-0101", TotalBookings: 7, TotalSpent: 900},
	}
	derived := []models.DerivedBookingGuest{
		derivedGuest("b1", "jane doe ", "A@X.com", "", 100, day(1)),
	}

	result := Reconcile(roster, derived)
	if got := result.ComparisonStats.TotalUniqueGuests; got != 1 {
		t.Fatalf("expected 1 canonical guest, got %d", got)
	}

	jane := result.AllGuests[0]
	if jane.Name != "Jane Doe" {
		t.Errorf("expected roster name to win, got %q", jane.Name)
	}
	if jane.GuestID != "g1" {
		t.Errorf("expected roster guest ID, got %q", jane.GuestID)
	}
	if jane.Source != models.GuestSourceMerged {
		t.Errorf("expected merged source, got %s", jane.Source)
	}
	if jane.TotalBookings != 7 {
		t.Errorf("expected roster booking total 7, got %d", jane.TotalBookings)
	}
	if jane.TotalSpent != 900 {
		t.Errorf("expected roster spend 900, got %.2f", jane.TotalSpent)
	}
	if len(jane.BookingHistory) != 1 {
		t.Errorf("expected 1 booking in history, got %d", len(jane.BookingHistory))
	}
}

func TestReconcileZeroRosterSpendKeepsDerivedSum(t *testing.T) {
	roster := []models.ExternalGuestRecord{
		{ID: "g1", Name: "Jane Doe", Email: "a@x.com", TotalBookings: 0, TotalSpent: 0},
	}
	derived := []models.DerivedBookingGuest{
		derivedGuest("b1", "Jane", "a@x.com", "", 100, day(1)),
		derivedGuest("b2", "Jane", "a@x.com", "", 60, day(3)),
	}

	result := Reconcile(roster, derived)
	jane := result.AllGuests[0]
	if jane.TotalSpent != 160 {
		t.Errorf("expected derived spend 160 when roster spend is zero, got %.2f", jane.TotalSpent)
	}
	if jane.TotalBookings != 2 {
		t.Errorf("expected matched history count 2 when roster count is zero, got %d", jane.TotalBookings)
	}
}

func TestReconcileAnonymousGuestsNeverCollide(t *testing.T) {
	derived := []models.DerivedBookingGuest{
		derivedGuest("b1", "", "", "", 10, day(1)),
		derivedGuest("b2", "", "", "", 20, day(2)),
	}

	result := Reconcile(nil, derived)
	if got := result.ComparisonStats.TotalUniqueGuests; got != 2 {
		t.Fatalf("expected anonymous bookings to stay distinct, got %d identities", got)
	}
	for _, g := range result.AllGuests {
		if len(g.BookingHistory) != 1 {
			t.Errorf("expected exactly 1 booking per anonymous identity, got %d", len(g.BookingHistory))
		}
	}
}

func TestReconcileCompositeKeyFallback(t *testing.T) {
	roster := []models.ExternalGuestRecord{
		{ID: "g1", Name: "Bob Smith", Phone: "+1 555 0101"},
	}
	derived := []models.DerivedBookingGuest{
		derivedGuest("b1", "bob  smith", "", "(555) 010-1", 40, day(1)),
	}

	result := Reconcile(roster, derived)
	// Phone normalization differs ("15550101" vs "5550101") so these
	// must NOT merge; the digits are part of the key.
	if got := result.ComparisonStats.TotalUniqueGuests; got != 2 {
		t.Fatalf("expected 2 identities for differing phone digits, got %d", got)
	}

	roster[0].Phone = "555 0101"
	result = Reconcile(roster, derived)
	if got := result.ComparisonStats.TotalUniqueGuests; got != 1 {
		t.Fatalf("expected composite-key merge, got %d identities", got)
	}
	if result.AllGuests[0].Source != models.GuestSourceMerged {
		t.Errorf("expected merged source, got %s", result.AllGuests[0].Source)
	}
}

func TestReconcileDeterministicAcrossInputOrder(t *testing.T) {
	roster := []models.ExternalGuestRecord{
		{ID: "g1", Name: "Jane Doe", Email: "a@x.com", TotalSpent: 500},
		{ID: "g2", Name: "Bob Smith", Email: "b@x.com"},
	}
	derived := []models.DerivedBookingGuest{
		derivedGuest("b1", "Jane", "a@x.com", "", 100, day(1)),
		derivedGuest("b2", "Jane D", "a@x.com", "", 50, day(4)),
		derivedGuest("b3", "Carol", "c@x.com", "", 30, day(2)),
	}

	forward := Reconcile(roster, derived)

	reversedRoster := []models.ExternalGuestRecord{roster[1], roster[0]}
	reversedDerived := []models.DerivedBookingGuest{derived[2], derived[1], derived[0]}
	backward := Reconcile(reversedRoster, reversedDerived)

	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("reconciliation differs across input orderings:\nforward:  %+v\nbackward: %+v", forward, backward)
	}
}

func TestReconcilePartitionAndStats(t *testing.T) {
	roster := []models.ExternalGuestRecord{
		{ID: "g1", Name: "Jane Doe", Email: "jane@real.com", TotalSpent: 200},
		{ID: "g2", Name: "No Shows", Email: "ghost@example.com"},
	}
	derived := []models.DerivedBookingGuest{
		derivedGuest("b1", "Jane Doe", "jane@real.com", "", 100, day(1)),
	}

	result := Reconcile(roster, derived)
	stats := result.ComparisonStats
	if stats.TotalUniqueGuests != 2 {
		t.Errorf("TotalUniqueGuests = %d, want 2", stats.TotalUniqueGuests)
	}
	if stats.GuestsWithBookings != 1 || len(result.GuestsWithBookings) != 1 {
		t.Errorf("GuestsWithBookings = %d/%d, want 1", stats.GuestsWithBookings, len(result.GuestsWithBookings))
	}
	if stats.GuestsWithoutBookings != 1 || len(result.GuestsWithoutBookings) != 1 {
		t.Errorf("GuestsWithoutBookings = %d/%d, want 1", stats.GuestsWithoutBookings, len(result.GuestsWithoutBookings))
	}
	if stats.GuestsWithRealEmail != 1 {
		t.Errorf("GuestsWithRealEmail = %d, want 1 (example.com is a placeholder)", stats.GuestsWithRealEmail)
	}
	if stats.GuestsWithSpend != 1 {
		t.Errorf("GuestsWithSpend = %d, want 1", stats.GuestsWithSpend)
	}
	if stats.GuestsWithHistory != 1 {
		t.Errorf("GuestsWithHistory = %d, want 1", stats.GuestsWithHistory)
	}
}

func TestDeriveBookingGuests(t *testing.T) {
	bookings := []models.ExternalBookingRecord{
		{
			ID:         "b1",
			GuestID:    "g1",
			GuestName:  "Jane",
			GuestEmail: "j@x.com",
			GuestPhone: "555",
			RoomID:     "r1",
			CheckIn:    day(1),
			CheckOut:   day(3),
			Amount:     120,
			Status:     "confirmed",
		},
	}
	derived := DeriveBookingGuests(bookings)
	if len(derived) != 1 {
		t.Fatalf("expected 1 derived guest, got %d", len(derived))
	}
	want := models.DerivedBookingGuest{
		BookingID: "b1",
		Name:      "Jane",
		Email:     "j@x.com",
		Phone:     "555",
		Amount:    120,
		CheckIn:   day(1),
		CheckOut:  day(3),
		Status:    "confirmed",
	}
	if !reflect.DeepEqual(derived[0], want) {
		t.Errorf("derived = %+v, want %+v", derived[0], want)
	}
}
