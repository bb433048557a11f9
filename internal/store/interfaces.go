package store

import (
	"context"

	"github.com/arenvest/crm/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// LocalRecordRepository is the free-tier store of record: a persistent
// partition per collection, holding a JSON array of records under the key
// "<prefix>_<collection>". It also remains the store of record for any
// local-prefixed identifier until migration completes.
type LocalRecordRepository interface {
	// List returns the full partition for the collection; an absent
	// partition yields an empty list.
	List(ctx context.Context, collection string) ([]models.Record, error)

	// Insert appends one record to the collection's partition.
	Insert(ctx context.Context, collection string, rec models.Record) error

	// Update merges partial into the record with the given id and refreshes
	// its updatedAt. Returns [ErrRecordNotFound] if the id is absent.
	Update(ctx context.Context, collection, id string, partial models.Record) (models.Record, error)

	// Delete removes the record with the given id from the partition.
	// Returns [ErrRecordNotFound] if the id is absent.
	Delete(ctx context.Context, collection, id string) error

	// Find scans the partition for the given id. A miss returns (nil, nil).
	Find(ctx context.Context, collection, id string) (models.Record, error)

	// Count reports how many records the collection's partition holds.
	Count(ctx context.Context, collection string) (int, error)

	// Clear drops the collection's partition wholesale.
	Clear(ctx context.Context, collection string) error
}

// RemoteRecordRepository is the paid-tier store of record: one collection
// per logical name in the hosted document database, spoken to over its
// authenticated REST surface.
type RemoteRecordRepository interface {
	// List returns all records of the collection.
	List(ctx context.Context, collection string) ([]models.Record, error)

	// Get returns the record with the given id. A miss returns
	// [ErrRecordNotFound], unlike local reads, which return nil.
	Get(ctx context.Context, collection, id string) (models.Record, error)

	// Create writes a new record; the server assigns the identifier and
	// both timestamps. Returns the record as stored.
	Create(ctx context.Context, collection string, rec models.Record) (models.Record, error)

	// Update merges partial into the stored record and returns the result.
	Update(ctx context.Context, collection, id string, partial models.Record) (models.Record, error)

	// Delete removes the record with the given id.
	Delete(ctx context.Context, collection, id string) error

	// Query returns records whose field equals value. Single equality
	// predicate only; no pagination or sorting.
	Query(ctx context.Context, collection, field string, value any) ([]models.Record, error)

	// BatchCreate commits all records in a single atomic multi-document
	// write. Either every record lands or none does. Used by migration.
	BatchCreate(ctx context.Context, collection string, records []models.Record) error
}
