// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

// Package service implements the tiered record store: CRUD over logical
// collections whose backing store depends on the caller's subscription
// tier, with an optimistic in-memory cache and one-way migration of locally
// created records into the remote store on upgrade.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/arenvest/crm/internal/auth"
	"github.com/arenvest/crm/internal/cache"
	"github.com/arenvest/crm/internal/config"
	"github.com/arenvest/crm/internal/logger"
	"github.com/arenvest/crm/internal/store"
	"github.com/arenvest/crm/models"
)

type tieredStore struct {
	local     store.LocalRecordRepository
	remote    store.RemoteRecordRepository
	provider  auth.Provider
	cache     *cache.CollectionCache
	demoLimit int
	logger    *logger.Logger
	states    *stateRegistry

	now func() time.Time
}

// NewTieredStore wires the tier-routed record store over both repositories.
// The cache is injected, not owned: every consumer bound to the same cache
// instance shares entries and each other's optimistic mutations.
func NewTieredStore(storages *store.Storages, provider auth.Provider, c *cache.CollectionCache, cfg config.App, log *logger.Logger) RecordStore {
	limit := cfg.DemoRecordLimit
	if limit <= 0 {
		limit = config.DefaultDemoRecordLimit
	}

	return &tieredStore{
		local:     storages.Local,
		remote:    storages.Remote,
		provider:  provider,
		cache:     c,
		demoLimit: limit,
		logger:    log,
		states:    newStateRegistry(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *tieredStore) Create(ctx context.Context, collection string, data models.Record) (models.Record, error) {
	if collection == "" {
		return nil, ErrCollectionRequired
	}

	tier := auth.ResolveTier(ctx, s.provider, s.logger)

	var created models.Record
	var err error
	if tier == models.TierPaid {
		// upgrade may have happened since the last call; move pending demo
		// records over before the new write so the listing stays whole
		s.migrateLocal(ctx, collection)

		created, err = s.remote.Create(ctx, collection, data.Clone())
	} else {
		created, err = s.createLocal(ctx, collection, data)
	}
	if err != nil {
		s.states.setError(collection, err)
		return nil, err
	}

	// re-list from the now-authoritative store instead of trusting the
	// write's echo, so the cache picks up server-side defaults
	s.Refresh(ctx, collection)

	return created, nil
}

func (s *tieredStore) createLocal(ctx context.Context, collection string, data models.Record) (models.Record, error) {
	count, err := s.local.Count(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("count records in %q: %w", collection, err)
	}
	if count >= s.demoLimit {
		return nil, fmt.Errorf("collection %q already holds %d records: %w", collection, count, ErrQuotaExceeded)
	}

	rec := data.Clone()
	rec.SetID(models.NewLocalID())
	rec.Touch(s.now())
	rec[models.FieldDemo] = true

	if err = s.local.Insert(ctx, collection, rec); err != nil {
		return nil, fmt.Errorf("insert record into %q: %w", collection, err)
	}
	return rec, nil
}

func (s *tieredStore) Update(ctx context.Context, collection, id string, partial models.Record) (models.Record, error) {
	if collection == "" {
		return nil, ErrCollectionRequired
	}
	if id == "" {
		return nil, ErrIdentifierRequired
	}

	// optimistic apply so consumers see the change before the write settles
	snapshot, patched := s.cache.Patch(collection, id, partial)
	if patched {
		s.cache.SetField(collection, id, models.FieldUpdatedAt, s.now())
	}

	var updated models.Record
	var err error
	if s.routesLocal(ctx, id) {
		updated, err = s.local.Update(ctx, collection, id, partial)
	} else {
		updated, err = s.remote.Update(ctx, collection, id, partial)
	}
	if err != nil {
		if patched {
			s.cache.Restore(collection, snapshot)
		}
		s.states.setError(collection, err)
		return nil, err
	}

	s.Refresh(ctx, collection)

	return updated, nil
}

func (s *tieredStore) Remove(ctx context.Context, collection, id string) error {
	if collection == "" {
		return ErrCollectionRequired
	}
	if id == "" {
		return ErrIdentifierRequired
	}

	removed, struck := s.cache.Remove(collection, id)

	var err error
	if s.routesLocal(ctx, id) {
		err = s.local.Delete(ctx, collection, id)
	} else {
		err = s.remote.Delete(ctx, collection, id)
	}
	if err != nil {
		if struck {
			// reinsert by append; the original position is not restored
			s.cache.Append(collection, removed)
		}
		s.states.setError(collection, err)
		return err
	}

	// no refresh: a delete has no server-computed fields to reconcile, the
	// optimistic removal is trusted as final
	s.states.setError(collection, nil)
	return nil
}

func (s *tieredStore) FetchAll(ctx context.Context, collection string) []models.Record {
	if list, ok := s.cache.Lookup(collection); ok {
		return list
	}

	s.states.setLoading(collection, true)
	defer s.states.setLoading(collection, false)

	return s.Refresh(ctx, collection)
}

func (s *tieredStore) FetchByID(ctx context.Context, collection, id string) (models.Record, error) {
	if collection == "" {
		return nil, ErrCollectionRequired
	}
	if id == "" {
		return nil, ErrIdentifierRequired
	}

	if s.routesLocal(ctx, id) {
		rec, err := s.local.Find(ctx, collection, id)
		if err != nil {
			s.states.setError(collection, err)
			return nil, err
		}
		// local misses yield nil without an error; remote misses throw.
		// Preserved as observed in the web client.
		return rec, nil
	}

	rec, err := s.remote.Get(ctx, collection, id)
	if err != nil {
		s.states.setError(collection, err)
		return nil, err
	}
	return rec, nil
}

func (s *tieredStore) FetchBy(ctx context.Context, collection, field string, value any) ([]models.Record, error) {
	if collection == "" {
		return nil, ErrCollectionRequired
	}

	tier := auth.ResolveTier(ctx, s.provider, s.logger)

	if tier == models.TierPaid {
		records, err := s.remote.Query(ctx, collection, field, value)
		if err != nil {
			s.states.setError(collection, err)
			return nil, err
		}
		return records, nil
	}

	records, err := s.local.List(ctx, collection)
	if err != nil {
		s.states.setError(collection, err)
		return nil, err
	}

	matched := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if fieldEquals(rec[field], value) {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}

func (s *tieredStore) Refresh(ctx context.Context, collection string) []models.Record {
	tier := auth.ResolveTier(ctx, s.provider, s.logger)

	var list []models.Record
	var err error
	if tier == models.TierPaid {
		s.migrateLocal(ctx, collection)
		list, err = s.remote.List(ctx, collection)
	} else {
		list, err = s.local.List(ctx, collection)
	}
	if err != nil {
		s.logger.Err(err).
			Str("func", "tieredStore.Refresh").
			Str("collection", collection).
			Str("tier", tier.String()).
			Msg("refresh failed")
		s.states.setError(collection, err)
		return []models.Record{}
	}

	s.cache.Store(collection, list)
	s.states.setError(collection, nil)
	return list
}

func (s *tieredStore) State(collection string) CollectionState {
	return s.states.get(collection)
}

// Watch subscribes to auth state transitions and refreshes every collection
// the cache knows about on each one. This is how a mid-session upgrade is
// picked up without an explicit manual refresh.
func (s *tieredStore) Watch(ctx context.Context) {
	events, stop := s.provider.Subscribe()
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.logger.Debug().
				Str("func", "tieredStore.Watch").
				Str("event", event.Kind.String()).
				Msg("auth state changed, refreshing collections")
			for _, collection := range s.cache.Keys() {
				s.Refresh(ctx, collection)
			}
		}
	}
}

// routesLocal applies the routing invariant: local-prefixed identifiers are
// served by local storage regardless of tier, everything else follows the
// resolved tier.
func (s *tieredStore) routesLocal(ctx context.Context, id string) bool {
	if models.IsLocalID(id) {
		return true
	}
	return auth.ResolveTier(ctx, s.provider, s.logger) == models.TierFree
}

// fieldEquals compares loosely across the JSON round-trip: numbers read
// back from storage arrive as float64, so formatted representations are
// compared instead of raw values.
func fieldEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
