// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package sync

import (
	"context"
	"fmt"

	"github.com/lodgelink/lodgelink/internal/models"
	"github.com/lodgelink/lodgelink/internal/pms"
	"github.com/lodgelink/lodgelink/internal/store"
)

// domainSyncer fetches one domain from the upstream and upserts every
// record into the local store, returning the record count.
type domainSyncer func(ctx context.Context, client pms.API, st store.Store) (int, error)

// domainSyncers maps each sync domain to its fetch-and-upsert routine.
var domainSyncers = map[models.SyncDomain]domainSyncer{
	models.DomainRooms: func(ctx context.Context, client pms.API, st store.Store) (int, error) {
		records, err := client.GetRooms(ctx)
		if err != nil {
			return 0, err
		}
		return upsertAll(ctx, st, models.DomainRooms, records, func(r models.Room) string { return r.ID })
	},
	models.DomainBookings: func(ctx context.Context, client pms.API, st store.Store) (int, error) {
		records, err := client.GetBookings(ctx)
		if err != nil {
			return 0, err
		}
		return upsertAll(ctx, st, models.DomainBookings, records, func(r models.ExternalBookingRecord) string { return r.ID })
	},
	models.DomainHousekeeping: func(ctx context.Context, client pms.API, st store.Store) (int, error) {
		records, err := client.GetHousekeepingTasks(ctx)
		if err != nil {
			return 0, err
		}
		return upsertAll(ctx, st, models.DomainHousekeeping, records, func(r models.HousekeepingTask) string { return r.ID })
	},
	models.DomainMaintenance: func(ctx context.Context, client pms.API, st store.Store) (int, error) {
		records, err := client.GetMaintenanceTickets(ctx)
		if err != nil {
			return 0, err
		}
		return upsertAll(ctx, st, models.DomainMaintenance, records, func(r models.MaintenanceTicket) string { return r.ID })
	},
	models.DomainFacilities: func(ctx context.Context, client pms.API, st store.Store) (int, error) {
		records, err := client.GetFacilities(ctx)
		if err != nil {
			return 0, err
		}
		return upsertAll(ctx, st, models.DomainFacilities, records, func(r models.Facility) string { return r.ID })
	},
	models.DomainAmenities: func(ctx context.Context, client pms.API, st store.Store) (int, error) {
		records, err := client.GetAmenities(ctx)
		if err != nil {
			return 0, err
		}
		return upsertAll(ctx, st, models.DomainAmenities, records, func(r models.Amenity) string { return r.ID })
	},
}

// upsertAll writes every fetched record under its external identifier.
// Upserts are idempotent, so re-syncing an unchanged upstream converges
// to the same record set.
func upsertAll[T any](ctx context.Context, st store.Store, domain models.SyncDomain, records []T, idOf func(T) string) (int, error) {
	for i, r := range records {
		if err := st.Upsert(ctx, domain, idOf(r), r); err != nil {
			return i, fmt.Errorf("upsert %s record %q: %w", domain, idOf(r), err)
		}
	}
	return len(records), nil
}
