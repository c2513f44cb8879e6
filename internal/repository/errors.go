// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrConflict signals that an operation cannot proceed due
// to existing dependent records (e.g. deleting an aircraft type that
// flights still reference).
package repository

import (
    "errors"
    "strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert, update or delete cannot be
// performed because of conflicting state, such as creating an airport
// with a code that already exists. Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether the given database error is a MySQL
// duplicate-key violation (error 1062).
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(err.Error(), "1062")
}
