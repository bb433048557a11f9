package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when an operation targets a record
	// identifier that does not exist in the resolved store. Local reads are
	// the exception: a missing record yields (nil, nil), not this error.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrWriteTimeout is returned when a remote write did not settle within
	// the configured deadline. The underlying write may still succeed later;
	// the deadline is a race, not a cancellation.
	ErrWriteTimeout = errors.New("remote write timed out")

	// ErrPermissionDenied is returned when the remote store or the auth
	// collaborator rejects a call with an authorization failure.
	ErrPermissionDenied = errors.New("permission denied by remote store")

	// ErrPartitionNotSaved is returned when writing a local partition
	// completes without error but affects zero rows.
	ErrPartitionNotSaved = errors.New("local partition was not saved")
)

// Low-level database operation errors wrapped by the local repository when a
// SQL-level operation fails before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the local
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan partition row")
)
