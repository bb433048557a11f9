// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package service

import (
	"context"

	"github.com/arenvest/crm/models"
)

// migrateLocal moves the collection's locally created records into the
// remote store. It runs opportunistically at the start of every paid-tier
// create and refresh.
//
// The whole pending set goes into one atomic batch commit; the local
// partition is cleared only after the commit succeeds. If the commit fails
// nothing is cleared and the next opportunity retries the same set.
//
// Errors are logged and swallowed: migration must never block the primary
// operation that triggered it. Returns the number of migrated records.
func (s *tieredStore) migrateLocal(ctx context.Context, collection string) int {
	log := s.logger

	records, err := s.local.List(ctx, collection)
	if err != nil {
		log.Err(err).
			Str("func", "tieredStore.migrateLocal").
			Str("collection", collection).
			Msg("listing local partition for migration failed")
		return 0
	}

	now := s.now()
	batch := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if !models.IsLocalID(rec.ID()) {
			continue
		}

		migrated := rec.Clone()
		delete(migrated, models.FieldID) // the remote store assigns a fresh one
		migrated[models.FieldMigratedFromLocal] = true
		migrated[models.FieldMigratedAt] = now
		if migrated.CreatedAt().IsZero() {
			migrated[models.FieldCreatedAt] = now
		}
		batch = append(batch, migrated)
	}

	if len(batch) == 0 {
		return 0
	}

	if err = s.remote.BatchCreate(ctx, collection, batch); err != nil {
		log.Err(err).
			Str("func", "tieredStore.migrateLocal").
			Str("collection", collection).
			Int("pending", len(batch)).
			Msg("batch commit of migrated records failed, partition left intact")
		return 0
	}

	if err = s.local.Clear(ctx, collection); err != nil {
		log.Err(err).
			Str("func", "tieredStore.migrateLocal").
			Str("collection", collection).
			Msg("clearing local partition after migration failed")
	}

	log.Info().
		Str("func", "tieredStore.migrateLocal").
		Str("collection", collection).
		Int("migrated", len(batch)).
		Msg("local records migrated to remote store")
	return len(batch)
}
