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

const guestsEndpoint = "/api/v1/guests"

// xmlGuest is the upstream wire shape of one roster guest.
type xmlGuest struct {
	ID            string  `xml:"GuestId"`
	Name          string  `xml:"Name"`
	Email         string  `xml:"Email"`
	Phone         string  `xml:"Phone"`
	TotalBookings int     `xml:"TotalBookings"`
	TotalSpent    float64 `xml:"TotalSpent"`
}

type guestsEnvelope struct {
	envelopeHeader
	Guests []xmlGuest `xml:"Guests>Guest"`
}

// GetGuests fetches the complete guest roster.
func (c *Client) GetGuests(ctx context.Context) ([]models.ExternalGuestRecord, error) {
	return fetchAllPages(c.pageSize, func(page, pageSize int) ([]models.ExternalGuestRecord, error) {
		var env guestsEnvelope
		if err := c.doRequest(ctx, requestConfig{endpoint: guestsEndpoint, query: pageQuery(page, pageSize)}, &env); err != nil {
			return nil, err
		}

		records := make([]models.ExternalGuestRecord, 0, len(env.Guests))
		for _, g := range env.Guests {
			id := strings.TrimSpace(g.ID)
			if err := requireID(guestsEndpoint, "guest", id); err != nil {
				return nil, err
			}
			records = append(records, models.ExternalGuestRecord{
				ID:            id,
				Name:          strings.TrimSpace(g.Name),
				Email:         strings.TrimSpace(g.Email),
				Phone:         strings.TrimSpace(g.Phone),
				TotalBookings: g.TotalBookings,
				TotalSpent:    g.TotalSpent,
			})
		}
		return records, nil
	})
}
