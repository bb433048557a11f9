// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

// Package cache holds the process-wide in-memory read cache of the tiered
// record store: the last known full list of records per collection.
//
// The cache is an explicit object constructed at application start and
// injected into its consumers; there is no package-level singleton, so tests
// can instantiate isolated instances. Entries are never persisted.
package cache

import (
	"sync"

	"github.com/arenvest/crm/models"
)

// CollectionCache keeps one entry per collection name: the last fetched list
// of records. Entries are replaced wholesale on refresh and mutated in place
// for optimistic updates. All records cross the cache boundary as deep
// copies, so rollback snapshots and caller-held lists never alias cached
// state.
//
// Multiple consumers of the same collection share one entry; an optimistic
// mutation made by one consumer is visible to the others before the backing
// store confirms it. That is accepted best-effort consistency, not a bug.
type CollectionCache struct {
	mu      sync.RWMutex
	entries map[string][]models.Record
}

// New returns an empty cache.
func New() *CollectionCache {
	return &CollectionCache{entries: make(map[string][]models.Record)}
}

// Lookup returns a copy of the cached list for the collection and whether an
// entry exists. An existing empty list is a valid hit.
func (c *CollectionCache) Lookup(collection string) ([]models.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[collection]
	if !ok {
		return nil, false
	}
	return cloneList(entry), true
}

// Store replaces the collection's entry wholesale, creating it if absent.
func (c *CollectionCache) Store(collection string, records []models.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[collection] = cloneList(records)
}

// Append adds one record to the collection's entry. A missing entry is
// created, so an optimistic reinsert after a failed delete always lands.
func (c *CollectionCache) Append(collection string, rec models.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[collection] = append(c.entries[collection], rec.Clone())
}

// Patch applies a partial update to the cached record with the given id and
// returns the pre-image for rollback. ok is false when the collection has no
// entry or the id is not in it; the cache is left untouched in that case.
func (c *CollectionCache) Patch(collection, id string, partial models.Record) (prev models.Record, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[collection]
	if !found {
		return nil, false
	}
	for i, rec := range entry {
		if rec.ID() != id {
			continue
		}
		prev = rec.Clone()
		next := rec.Clone()
		next.Merge(partial)
		entry[i] = next
		return prev, true
	}
	return nil, false
}

// Restore puts a rollback snapshot back in place of the record with the same
// id. If the id is gone from the entry the snapshot is appended instead.
func (c *CollectionCache) Restore(collection string, snapshot models.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entries[collection]
	for i, rec := range entry {
		if rec.ID() == snapshot.ID() {
			entry[i] = snapshot.Clone()
			return
		}
	}
	c.entries[collection] = append(entry, snapshot.Clone())
}

// Remove strikes the record with the given id from the collection's entry
// and returns it, for reinsertion if the backing delete fails.
func (c *CollectionCache) Remove(collection, id string) (removed models.Record, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entries[collection]
	for i, rec := range entry {
		if rec.ID() != id {
			continue
		}
		removed = rec
		c.entries[collection] = append(entry[:i], entry[i+1:]...)
		return removed, true
	}
	return nil, false
}

// SetField updates a single field of the cached record with the given id
// without going through Merge's identity-field protection. Used to refresh
// updatedAt during optimistic patches.
func (c *CollectionCache) SetField(collection, id, field string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rec := range c.entries[collection] {
		if rec.ID() == id {
			rec[field] = value
			return
		}
	}
}

// Keys returns the names of all collections that currently have an entry.
func (c *CollectionCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

func cloneList(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out
}
