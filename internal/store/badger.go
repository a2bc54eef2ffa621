// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/lodgelink/lodgelink/internal/config"
	"github.com/lodgelink/lodgelink/internal/metrics"
	"github.com/lodgelink/lodgelink/internal/models"
)

// BadgerStore implements Store on BadgerDB. Keys are namespaced as
// "<domain>:<external-id>" so domains never collide and a domain can be
// scanned with a simple prefix iterator.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) the store at cfg.Path. When
// cfg.InMemory is set the store lives entirely in memory, which is what
// the tests use.
func NewBadgerStore(cfg config.StoreConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// recordKey builds the namespaced key for a record.
func recordKey(domain models.SyncDomain, id string) []byte {
	return []byte(string(domain) + ":" + id)
}

// Upsert inserts or replaces a record by its external identifier.
func (s *BadgerStore) Upsert(ctx context.Context, domain models.SyncDomain, id string, record interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("upsert %s: empty record identifier", domain)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record %s: %w", domain, id, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(domain, id), data)
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("upsert", string(domain)).Inc()
		return fmt.Errorf("upsert %s record %s: %w", domain, id, err)
	}

	metrics.StoreOperations.WithLabelValues("upsert", string(domain)).Inc()
	return nil
}

// Get unmarshals the record with the given identifier into out.
func (s *BadgerStore) Get(ctx context.Context, domain models.SyncDomain, id string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(domain, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s record %s: %w", domain, id, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if err == nil {
		metrics.StoreOperations.WithLabelValues("get", string(domain)).Inc()
	}
	return err
}

// List streams every record in a domain to fn in key order.
func (s *BadgerStore) List(ctx context.Context, domain models.SyncDomain, fn func(id string, data []byte) error) error {
	prefix := []byte(string(domain) + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			id := string(item.Key()[len(prefix):])
			if err := item.Value(func(val []byte) error {
				return fn(id, val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list", string(domain)).Inc()
		return err
	}

	metrics.StoreOperations.WithLabelValues("list", string(domain)).Inc()
	return nil
}

// Count returns the number of records in a domain. Values are not loaded.
func (s *BadgerStore) Count(ctx context.Context, domain models.SyncDomain) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	prefix := []byte(string(domain) + ":")
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count %s records: %w", domain, err)
	}
	return count, nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (s *BadgerStore) Delete(ctx context.Context, domain models.SyncDomain, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(recordKey(domain, id))
	})
	if err != nil {
		metrics.StoreErrors.WithLabelValues("delete", string(domain)).Inc()
		return fmt.Errorf("delete %s record %s: %w", domain, id, err)
	}

	metrics.StoreOperations.WithLabelValues("delete", string(domain)).Inc()
	return nil
}

// Close releases the underlying BadgerDB handle.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
