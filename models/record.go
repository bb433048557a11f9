// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

// Package models defines the shared data model of the CRM record store:
// schemaless records, subscription tiers, and the authentication types
// exchanged with the hosted auth provider.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Well-known record fields. Every record carries an identifier and both
// timestamps; everything else is defined by the logical collection's callers
// and is not interpreted by the store.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"

	// FieldDemo marks records created on the free tier in the local store.
	FieldDemo = "isDemo"

	// FieldMigratedFromLocal and FieldMigratedAt are stamped on records moved
	// from the local partition into the remote collection on upgrade.
	FieldMigratedFromLocal = "migratedFromLocal"
	FieldMigratedAt        = "migratedAt"
)

// LocalIDPrefix tags identifiers minted on the client before a record has
// been migrated to the remote store. A record whose identifier carries this
// prefix is always read, written and deleted against local storage,
// regardless of the caller's current tier.
const LocalIDPrefix = "local_"

// Record is a schemaless collection entry: a mapping from field name to
// value. The store guarantees only the well-known fields above; callers own
// the rest of the shape.
type Record map[string]any

// NewLocalID mints an identifier in the local namespace: the LocalIDPrefix,
// the current time in unix milliseconds, and a short random suffix.
func NewLocalID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s%d_%s", LocalIDPrefix, time.Now().UnixMilli(), suffix)
}

// IsLocalID reports whether id belongs to the local identifier namespace.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// ID returns the record's identifier or the empty string if unset.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// SetID assigns the record's identifier.
func (r Record) SetID(id string) {
	r[FieldID] = id
}

// CreatedAt returns the record's creation time, tolerating both time.Time
// values (records built in process) and RFC 3339 strings (records read back
// from JSON or from the remote store's wire format). A missing or malformed
// value yields the zero time.
func (r Record) CreatedAt() time.Time {
	return timeField(r, FieldCreatedAt)
}

// UpdatedAt returns the record's last-modification time. Same parsing rules
// as [Record.CreatedAt].
func (r Record) UpdatedAt() time.Time {
	return timeField(r, FieldUpdatedAt)
}

// Touch sets updatedAt to now, and createdAt too when it is not set yet.
func (r Record) Touch(now time.Time) {
	if _, ok := r[FieldCreatedAt]; !ok {
		r[FieldCreatedAt] = now
	}
	r[FieldUpdatedAt] = now
}

// Clone returns a deep copy of the record. Nested maps and slices are copied
// recursively, so rollback snapshots taken from the cache stay intact when
// the original record is mutated afterwards.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge applies partial on top of the record, field by field. The identifier
// and creation time are never overwritten; updatedAt is the caller's job
// (see [Record.Touch]).
func (r Record) Merge(partial Record) {
	for k, v := range partial {
		if k == FieldID || k == FieldCreatedAt {
			continue
		}
		r[k] = cloneValue(v)
	}
}

func timeField(r Record, field string) time.Time {
	switch v := r[field].(type) {
	case time.Time:
		return v
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Record:
		return val.Clone()
	case map[string]any:
		return Record(val).Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
