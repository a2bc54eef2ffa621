// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

// Package reconcile merges guest records from the roster endpoint and
// guests synthesized from raw bookings into one canonical identity set.
package reconcile

import (
	"strings"
)

// IdentityKey is the matching key for one guest contact. A Unique key
// never matches any other key, including another Unique one; it exists
// so anonymous guests with no usable contact fields are never silently
// merged with each other.
type IdentityKey struct {
	Value  string
	Unique bool
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips every non-digit character from a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeName trims a name and collapses internal whitespace runs to
// single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ResolveIdentityKey computes the matching key for one contact. Email
// wins when present; otherwise a composite of normalized name and phone
// is used. A contact with no usable field at all gets a Unique key.
//
// This is the single place the matching rule lives. Both reconciliation
// passes key through it, which is what guarantees a booking can never
// attach to two different canonical identities.
func ResolveIdentityKey(name, email, phone string) IdentityKey {
	if e := NormalizeEmail(email); e != "" {
		return IdentityKey{Value: "email:" + e}
	}
	n := NormalizeName(name)
	p := NormalizePhone(phone)
	if n == "" && p == "" {
		return IdentityKey{Unique: true}
	}
	return IdentityKey{Value: "contact:" + strings.ToLower(n) + "|" + p}
}

// placeholderEmailDomains are throwaway domains the upstream seeds into
// records that have no real address on file.
var placeholderEmailDomains = map[string]struct{}{
	"example.com": {},
	"example.org": {},
	"example.net": {},
	"test.com":    {},
}

// placeholderEmailMarkers flag addresses the upstream stamps out when an
// address is known to be fake, e.g. "invalid@pms.local" or
// "guest-placeholder@hotel.com".
var placeholderEmailMarkers = []string{"placeholder", "invalid"}

// IsRealEmail reports whether an email is non-empty, not from a known
// placeholder domain and carries no placeholder marker.
func IsRealEmail(email string) bool {
	e := NormalizeEmail(email)
	if e == "" {
		return false
	}
	at := strings.LastIndex(e, "@")
	if at < 0 || at == len(e)-1 {
		return false
	}
	if _, placeholder := placeholderEmailDomains[e[at+1:]]; placeholder {
		return false
	}
	for _, marker := range placeholderEmailMarkers {
		if strings.Contains(e, marker) {
			return false
		}
	}
	return true
}
