// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/arenvest/crm/internal/logger"
	"github.com/arenvest/crm/models"
)

// partitionPrefix is prepended to every collection name to form the
// partition key under which the collection's JSON array is stored.
const partitionPrefix = "crmdemo"

const partitionsTable = "record_partitions"

// PartitionKey returns the storage key for a collection's local partition.
func PartitionKey(collection string) string {
	return fmt.Sprintf("%s_%s", partitionPrefix, collection)
}

type localRecordRepository struct {
	*DB
	logger *logger.Logger
}

// NewLocalRecordRepository returns the SQLite-backed implementation of
// [LocalRecordRepository]. Each collection is one row keyed by
// [PartitionKey]; the row value is the collection's records serialized as a
// JSON array, mirroring the web client's persistent-storage contract.
func NewLocalRecordRepository(db *DB, logger *logger.Logger) LocalRecordRepository {
	return &localRecordRepository{
		DB:     db,
		logger: logger,
	}
}

func (l *localRecordRepository) List(ctx context.Context, collection string) ([]models.Record, error) {
	return l.readPartition(ctx, collection)
}

func (l *localRecordRepository) Insert(ctx context.Context, collection string, rec models.Record) error {
	records, err := l.readPartition(ctx, collection)
	if err != nil {
		return err
	}

	records = append(records, rec)
	return l.writePartition(ctx, collection, records)
}

func (l *localRecordRepository) Update(ctx context.Context, collection, id string, partial models.Record) (models.Record, error) {
	records, err := l.readPartition(ctx, collection)
	if err != nil {
		return nil, err
	}

	for i, rec := range records {
		if rec.ID() != id {
			continue
		}
		next := rec.Clone()
		next.Merge(partial)
		next[models.FieldUpdatedAt] = time.Now().UTC()
		records[i] = next

		if err = l.writePartition(ctx, collection, records); err != nil {
			return nil, err
		}
		return next, nil
	}

	return nil, fmt.Errorf("update %s in collection %q: %w", id, collection, ErrRecordNotFound)
}

func (l *localRecordRepository) Delete(ctx context.Context, collection, id string) error {
	records, err := l.readPartition(ctx, collection)
	if err != nil {
		return err
	}

	for i, rec := range records {
		if rec.ID() != id {
			continue
		}
		records = append(records[:i], records[i+1:]...)
		return l.writePartition(ctx, collection, records)
	}

	return fmt.Errorf("delete %s from collection %q: %w", id, collection, ErrRecordNotFound)
}

func (l *localRecordRepository) Find(ctx context.Context, collection, id string) (models.Record, error) {
	records, err := l.readPartition(ctx, collection)
	if err != nil {
		return nil, err
	}

	// linear scan over the full partition; a miss is not an error here
	for _, rec := range records {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, nil
}

func (l *localRecordRepository) Count(ctx context.Context, collection string) (int, error) {
	records, err := l.readPartition(ctx, collection)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (l *localRecordRepository) Clear(ctx context.Context, collection string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Delete(partitionsTable).
		Where(sq.Eq{"partition_key": PartitionKey(collection)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = l.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.Clear").
			Str("collection", collection).
			Msg("failed to clear local partition")
		return fmt.Errorf("clear partition for %q: %w", collection, err)
	}

	return nil
}

func (l *localRecordRepository) readPartition(ctx context.Context, collection string) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("payload").
		From(partitionsTable).
		Where(sq.Eq{"partition_key": PartitionKey(collection)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var payload []byte
	row := l.DB.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Record{}, nil
		}
		log.Err(err).
			Str("func", "localRecordRepository.readPartition").
			Str("collection", collection).
			Msg("failed to scan local partition payload")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	var records []models.Record
	if err = json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode partition for %q: %w", collection, err)
	}
	return records, nil
}

func (l *localRecordRepository) writePartition(ctx context.Context, collection string, records []models.Record) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode partition for %q: %w", collection, err)
	}

	query, args, err := sq.Insert(partitionsTable).
		Columns("partition_key", "payload", "updated_at").
		Values(PartitionKey(collection), payload, time.Now().UTC()).
		Suffix("ON CONFLICT(partition_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := l.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.writePartition").
			Str("collection", collection).
			Msg("failed to upsert local partition")
		return fmt.Errorf("write partition for %q: %w", collection, err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrPartitionNotSaved
	}

	return nil
}
