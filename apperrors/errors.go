package apperrors

import "errors"

// Package apperrors defines the exported sentinel errors callers check with
// errors.Is. Driver failures are reported as *storage.DriverError, which also
// matches ErrDriverFailure. For other validation or operational errors prefer
// context-wrapped errors.

var (
	// ErrConfigurationMissing indicates a connection string or setting key is
	// absent or empty in the configuration provider.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrConnectionUnavailable indicates the liveness probe failed, or a
	// connection was requested while the database was offline.
	ErrConnectionUnavailable = errors.New("connection unavailable")

	// ErrInvalidQuery indicates no query was assigned or its text is empty.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrDriverFailure indicates the database driver failed during
	// open/begin/execute/commit/rollback.
	ErrDriverFailure = errors.New("driver failure")

	// ErrInvalidArgument indicates the caller provided invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotConfigured indicates a required runtime dependency was not provided.
	ErrNotConfigured = errors.New("not configured")

	// ErrNotSupported indicates the operation is not supported by the underlying backend.
	ErrNotSupported = errors.New("not supported")
)
