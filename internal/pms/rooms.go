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

const roomsEndpoint = "/api/v1/rooms"

type xmlRoom struct {
	ID       string `xml:"RoomId"`
	Number   string `xml:"Number"`
	Type     string `xml:"Type"`
	Capacity int    `xml:"Capacity"`
	Status   string `xml:"Status"`
}

type roomsEnvelope struct {
	envelopeHeader
	Rooms []xmlRoom `xml:"Rooms>Room"`
}

// GetRooms fetches the room inventory.
func (c *Client) GetRooms(ctx context.Context) ([]models.Room, error) {
	return fetchAllPages(c.pageSize, func(page, pageSize int) ([]models.Room, error) {
		var env roomsEnvelope
		if err := c.doRequest(ctx, requestConfig{endpoint: roomsEndpoint, query: pageQuery(page, pageSize)}, &env); err != nil {
			return nil, err
		}

		records := make([]models.Room, 0, len(env.Rooms))
		for _, r := range env.Rooms {
			id := strings.TrimSpace(r.ID)
			if err := requireID(roomsEndpoint, "room", id); err != nil {
				return nil, err
			}
			records = append(records, models.Room{
				ID:       id,
				Number:   strings.TrimSpace(r.Number),
				Type:     strings.TrimSpace(r.Type),
				Capacity: r.Capacity,
				Status:   strings.ToLower(strings.TrimSpace(r.Status)),
			})
		}
		return records, nil
	})
}
