// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

// Package models defines the typed record schema shared across the PMS
// adapter, the reconciliation engine, the sync orchestrator and the HTTP
// layer.
//
// External records mirror what the upstream PMS reports after the adapter
// has normalized its XML envelope into native types. They are immutable
// within a sync run: fetchers produce them, the orchestrator and the
// reconciliation engine only read them.
package models

import "time"

// ExternalGuestRecord is one guest as reported by the PMS roster endpoint.
//
// The aggregate totals (TotalBookings, TotalSpent) are upstream-reported
// values. A zero TotalSpent is treated as "unknown" by the reconciliation
// engine because the upstream omits the field for guests without folio
// activity.
type ExternalGuestRecord struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	TotalBookings int     `json:"totalBookings"`
	TotalSpent    float64 `json:"totalSpent"`
}

// ExternalBookingRecord is one reservation as reported by the PMS.
//
// Guest contact fields are embedded inline because the upstream does not
// always link a booking to a roster guest ID. GuestID is empty for such
// unlinked bookings; the reconciliation engine synthesizes a
// DerivedBookingGuest from the embedded fields instead.
type ExternalBookingRecord struct {
	ID         string    `json:"id"`
	GuestID    string    `json:"guestId,omitempty"`
	GuestName  string    `json:"guestName"`
	GuestEmail string    `json:"guestEmail"`
	GuestPhone string    `json:"guestPhone"`
	RoomID     string    `json:"roomId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
}

// Room is one bookable unit (room, cabin, dorm bed) in the property.
type Room struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

// HousekeepingTask is one cleaning/turnover task reported by the PMS.
type HousekeepingTask struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"roomId"`
	Task       string    `json:"task"`
	Status     string    `json:"status"`
	AssignedTo string    `json:"assignedTo,omitempty"`
	DueAt      time.Time `json:"dueAt"`
}

// MaintenanceTicket is one maintenance request reported by the PMS.
type MaintenanceTicket struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"roomId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	ReportedAt  time.Time `json:"reportedAt"`
}

// Facility is one shared space (hall, spa, kitchen) in the property.
type Facility struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

// Amenity is one service or extra (wifi, breakfast, bike rental) the
// property offers, optionally chargeable.
type Amenity struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"`
	Chargeable bool    `json:"chargeable"`
	Price      float64 `json:"price,omitempty"`
}
