package dispatch

import "errors"

// Failure taxonomy. Every error produced during dispatch wraps exactly one
// of these sentinels; all of them are absorbed at the Execute boundary and
// converted to a DispatchResult, none propagate to the transport.
var (
	// ErrValidation indicates a malformed argument (bad time format,
	// nothing to update, empty apartment list).
	ErrValidation = errors.New("validation failed")

	// ErrAuthorization indicates a non-admin attempting an admin-only
	// operation.
	ErrAuthorization = errors.New("not authorized")

	// ErrNotFound indicates an unresolvable user or a missing record.
	ErrNotFound = errors.New("not found")

	// ErrUnknownOperation indicates a function name outside the catalog.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrStore indicates an entity store failure.
	ErrStore = errors.New("store operation failed")
)
