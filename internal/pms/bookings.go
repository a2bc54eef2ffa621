// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package pms

import (
	"context"
	"strings"

	"github.com/lodgelink/lodgelink/internal/models"
)

const bookingsEndpoint = "/api/v1/bookings"

// xmlBooking is the upstream wire shape of one reservation. Field casing
// and nullability vary upstream, so everything is normalized before it
// becomes a models.ExternalBookingRecord.
type xmlBooking struct {
	ID         string  `xml:"BookingId"`
	GuestID    string  `xml:"GuestId"`
	GuestName  string  `xml:"GuestName"`
	GuestEmail string  `xml:"GuestEmail"`
	GuestPhone string  `xml:"GuestPhone"`
	RoomID     string  `xml:"RoomId"`
	CheckIn    string  `xml:"CheckIn"`
	CheckOut   string  `xml:"CheckOut"`
	Amount     float64 `xml:"Amount"`
	Status     string  `xml:"Status"`
}

type bookingsEnvelope struct {
	envelopeHeader
	Bookings []xmlBooking `xml:"Bookings>Booking"`
}

// GetBookings fetches every reservation, walking the paginated endpoint
// until a short page.
func (c *Client) GetBookings(ctx context.Context) ([]models.ExternalBookingRecord, error) {
	return fetchAllPages(c.pageSize, func(page, pageSize int) ([]models.ExternalBookingRecord, error) {
		return c.getBookingsPage(ctx, page, pageSize)
	})
}

// getBookingsPage fetches one page of reservations. Page numbers are
// 1-based. Also used by TestConnection as the representative fetch.
func (c *Client) getBookingsPage(ctx context.Context, page, pageSize int) ([]models.ExternalBookingRecord, error) {
	var env bookingsEnvelope
	if err := c.doRequest(ctx, requestConfig{endpoint: bookingsEndpoint, query: pageQuery(page, pageSize)}, &env); err != nil {
		return nil, err
	}

	records := make([]models.ExternalBookingRecord, 0, len(env.Bookings))
	for _, b := range env.Bookings {
		record, err := normalizeBooking(b)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// normalizeBooking converts a wire booking into the canonical record
// shape, trimming stray whitespace and parsing stay dates.
func normalizeBooking(b xmlBooking) (models.ExternalBookingRecord, error) {
	id := strings.TrimSpace(b.ID)
	if err := requireID(bookingsEndpoint, "booking", id); err != nil {
		return models.ExternalBookingRecord{}, err
	}

	checkIn, err := parsePMSTime(bookingsEndpoint, "check-in date", b.CheckIn)
	if err != nil {
		return models.ExternalBookingRecord{}, err
	}
	checkOut, err := parsePMSTime(bookingsEndpoint, "check-out date", b.CheckOut)
	if err != nil {
		return models.ExternalBookingRecord{}, err
	}

	return models.ExternalBookingRecord{
		ID:         id,
		GuestID:    strings.TrimSpace(b.GuestID),
		GuestName:  strings.TrimSpace(b.GuestName),
		GuestEmail: strings.TrimSpace(b.GuestEmail),
		GuestPhone: strings.TrimSpace(b.GuestPhone),
		RoomID:     strings.TrimSpace(b.RoomID),
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Amount:     b.Amount,
		Status:     strings.ToLower(strings.TrimSpace(b.Status)),
	}, nil
}
