// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

// operations.go - housekeeping and maintenance domain fetchers.

package pms

import (
	"context"
	"strings"

	"github.com/lodgelink/lodgelink/internal/models"
)

const (
	housekeepingEndpoint = "/api/v1/housekeeping"
	maintenanceEndpoint  = "/api/v1/maintenance"
)

type xmlHousekeepingTask struct {
	ID         string `xml:"TaskId"`
	RoomID     string `xml:"RoomId"`
	Task       string `xml:"Task"`
	Status     string `xml:"Status"`
	AssignedTo string `xml:"AssignedTo"`
	DueAt      string `xml:"DueAt"`
}

type housekeepingEnvelope struct {
	envelopeHeader
	Tasks []xmlHousekeepingTask `xml:"Tasks>Task"`
}

type xmlMaintenanceTicket struct {
	ID          string `xml:"TicketId"`
	RoomID      string `xml:"RoomId"`
	Title       string `xml:"Title"`
	Description string `xml:"Description"`
	Priority    string `xml:"Priority"`
	Status      string `xml:"Status"`
	ReportedAt  string `xml:"ReportedAt"`
}

type maintenanceEnvelope struct {
	envelopeHeader
	Tickets []xmlMaintenanceTicket `xml:"Tickets>Ticket"`
}

// GetHousekeepingTasks fetches the housekeeping task list.
func (c *Client) GetHousekeepingTasks(ctx context.Context) ([]models.HousekeepingTask, error) {
	return fetchAllPages(c.pageSize, func(page, pageSize int) ([]models.HousekeepingTask, error) {
		var env housekeepingEnvelope
		if err := c.doRequest(ctx, requestConfig{endpoint: housekeepingEndpoint, query: pageQuery(page, pageSize)}, &env); err != nil {
			return nil, err
		}

		records := make([]models.HousekeepingTask, 0, len(env.Tasks))
		for _, t := range env.Tasks {
			id := strings.TrimSpace(t.ID)
			if err := requireID(housekeepingEndpoint, "housekeeping task", id); err != nil {
				return nil, err
			}
			dueAt, err := parsePMSTime(housekeepingEndpoint, "due date", t.DueAt)
			if err != nil {
				return nil, err
			}
			records = append(records, models.HousekeepingTask{
				ID:         id,
				RoomID:     strings.TrimSpace(t.RoomID),
				Task:       strings.TrimSpace(t.Task),
				Status:     strings.ToLower(strings.TrimSpace(t.Status)),
				AssignedTo: strings.TrimSpace(t.AssignedTo),
				DueAt:      dueAt,
			})
		}
		return records, nil
	})
}

// GetMaintenanceTickets fetches open and historical maintenance tickets.
func (c *Client) GetMaintenanceTickets(ctx context.Context) ([]models.MaintenanceTicket, error) {
	return fetchAllPages(c.pageSize, func(page, pageSize int) ([]models.MaintenanceTicket, error) {
		var env maintenanceEnvelope
		if err := c.doRequest(ctx, requestConfig{endpoint: maintenanceEndpoint, query: pageQuery(page, pageSize)}, &env); err != nil {
			return nil, err
		}

		records := make([]models.MaintenanceTicket, 0, len(env.Tickets))
		for _, t := range env.Tickets {
			id := strings.TrimSpace(t.ID)
			if err := requireID(maintenanceEndpoint, "maintenance ticket", id); err != nil {
				return nil, err
			}
			reportedAt, err := parsePMSTime(maintenanceEndpoint, "reported date", t.ReportedAt)
			if err != nil {
				return nil, err
			}
			records = append(records, models.MaintenanceTicket{
				ID:          id,
				RoomID:      strings.TrimSpace(t.RoomID),
				Title:       strings.TrimSpace(t.Title),
				Description: strings.TrimSpace(t.Description),
				Priority:    strings.ToLower(strings.TrimSpace(t.Priority)),
				Status:      strings.ToLower(strings.TrimSpace(t.Status)),
				ReportedAt:  reportedAt,
			})
		}
		return records, nil
	})
}
