// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

// Package store provides the local record store the sync orchestrator
// writes into. Records are keyed by sync domain plus external identifier,
// which makes every upsert idempotent: re-running a sync against an
// unchanged upstream converges to the same record set.
package store

import (
	"context"
	"errors"

	"github.com/lodgelink/lodgelink/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the domain-scoped persistence interface used by the sync
// orchestrator and the HTTP layer. Implementations must be safe for
// concurrent use; the orchestrator upserts several domains in parallel.
type Store interface {
	// Upsert inserts or replaces a record by its external identifier.
	Upsert(ctx context.Context, domain models.SyncDomain, id string, record interface{}) error

	// Get unmarshals the record with the given identifier into out.
	// Returns ErrNotFound if no such record exists.
	Get(ctx context.Context, domain models.SyncDomain, id string, out interface{}) error

	// List streams every record in a domain to fn in key order.
	// Returning an error from fn stops the iteration.
	List(ctx context.Context, domain models.SyncDomain, fn func(id string, data []byte) error) error

	// Count returns the number of records in a domain.
	Count(ctx context.Context, domain models.SyncDomain) (int, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, domain models.SyncDomain, id string) error

	// Close releases the underlying resources.
	Close() error
}
