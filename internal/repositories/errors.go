package repositories

import "errors"

// ErrNotFound is returned when a record id does not resolve. Handlers map it
// to a 404 regardless of which repository produced it.
var ErrNotFound = errors.New("record not found")
