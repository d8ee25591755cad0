package repositories

import "errors"

// Storage errors form a small taxonomy that handlers translate to HTTP
// statuses in exactly one place. Backends map their native error codes onto
// these sentinels; raw driver errors never cross the repository boundary
// unwrapped.
var (
	// ErrNotFound is returned when the requested id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation covers uniqueness, foreign-key and
	// required-field violations reported by the backend.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrStorageUnavailable wraps connectivity and backend-internal
	// failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
