package service

import (
	"context"

	"github.com/arenvest/crm/models"
)

//go:generate mockgen -source=interfaces.go -destination=../handler/http/mock_record_store_test.go -package=http

// RecordStore is the tier-routed CRUD contract over logical collections.
// Which backing store serves an operation depends on the caller's
// subscription tier, resolved fresh on every call, and on the identifier
// namespace: local-prefixed identifiers always resolve to local storage.
type RecordStore interface {
	// Create writes a new record and returns it with its assigned
	// identifier and timestamps.
	Create(ctx context.Context, collection string, data models.Record) (models.Record, error)

	// Update applies a partial update. The cache is patched optimistically
	// before the backing write and rolled back if the write fails.
	Update(ctx context.Context, collection, id string, partial models.Record) (models.Record, error)

	// Remove deletes a record. The cache entry is struck optimistically and
	// reinserted (by append) if the backing delete fails.
	Remove(ctx context.Context, collection, id string) error

	// FetchAll returns the cached list when one exists, otherwise refreshes
	// from the authoritative store.
	FetchAll(ctx context.Context, collection string) []models.Record

	// FetchByID returns a single record. A local miss yields (nil, nil); a
	// remote miss yields [store.ErrRecordNotFound]. Callers must tolerate
	// the asymmetry.
	FetchByID(ctx context.Context, collection, id string) (models.Record, error)

	// FetchBy returns records whose field equals value.
	FetchBy(ctx context.Context, collection, field string, value any) ([]models.Record, error)

	// Refresh re-lists from the authoritative store and replaces the cache
	// wholesale. Failures are recorded on the collection state and an empty
	// list is returned; Refresh never fails loudly.
	Refresh(ctx context.Context, collection string) []models.Record

	// State reports the collection's observable loading flag and last
	// operation error.
	State(collection string) CollectionState

	// Watch blocks, refreshing every known collection on each auth state
	// transition, until ctx is done. Run it on its own goroutine.
	Watch(ctx context.Context)
}
