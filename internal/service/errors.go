package service

import "errors"

var (
	// ErrQuotaExceeded is returned when a free-tier create would push a
	// collection past the configured demo record ceiling. It is signaled
	// before any local write is attempted.
	ErrQuotaExceeded = errors.New("demo record limit reached")

	// ErrCollectionRequired is returned when an operation is called with an
	// empty collection name.
	ErrCollectionRequired = errors.New("collection name is required")

	// ErrIdentifierRequired is returned when an operation that targets a
	// single record is called with an empty identifier.
	ErrIdentifierRequired = errors.New("record identifier is required")
)
