package store

import (
	"context"
	"fmt"

	"github.com/arenvest/crm/internal/config"
	"github.com/arenvest/crm/internal/logger"
)

// Storages groups both record repositories into a single value that can be
// passed to the service layer.
type Storages struct {
	// Local is the SQLite-backed partition store used by the free tier.
	Local LocalRecordRepository

	// Remote is the hosted document database used by the paid tier.
	Remote RemoteRecordRepository
}

// NewStorages initialises the storage layer using the supplied configuration
// and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in
//     cfg.Local.DSN, creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs the remote document-database client with the supplied
//     bearer-token source.
//
// Returns an error if the local database cannot be opened or migrated.
func NewStorages(cfg config.Storage, tokens TokenSource, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.Local, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Local: NewLocalRecordRepository(db, logger),
		Remote: NewRemoteRecordRepository(RemoteConfig{
			BaseURL:      cfg.Remote.BaseURL,
			WriteTimeout: cfg.Remote.WriteTimeout,
		}, tokens, logger),
	}, nil
}
