package services

import "errors"

// Domain failure sentinels. Services wrap these with context via
// fmt.Errorf("...: %w", ...); handlers resolve them to HTTP statuses with
// errors.Is. Not-found conditions surface as repositories.ErrNotFound.
var (
	// ErrUnauthorized covers bad credentials and missing, invalid or
	// expired tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is authenticated but is not the owner
	// of the resource being mutated.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict means the operation collides with existing state, such as
	// a duplicate email or a duplicate active request.
	ErrConflict = errors.New("conflict")

	// ErrInvalidOperation means the operation violates a business rule,
	// such as requesting your own book or an unavailable one.
	ErrInvalidOperation = errors.New("invalid operation")
)
