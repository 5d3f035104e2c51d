// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a record linked to someone else, while
// ErrConflict signals that an operation cannot proceed because of
// existing state (e.g. registering a tenant profile twice).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// record they have no ownership or tenancy relationship with. Handlers
// should translate this into an HTTP 403 response. Existence is always
// checked first, so ErrForbidden implies the record exists.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as registering a second tenant profile for the
// same user. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
