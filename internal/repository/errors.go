// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrDuplicatePending signals that a conditional insert
// found a conflicting open record.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrDuplicatePending is returned when a conditional insert is rejected
// because an open (pending, or pending/approved for listing documents)
// record already exists for the same actor/target pair. Handlers should
// translate this into an HTTP 400 response and purge any files that
// were uploaded for the rejected submission.
var ErrDuplicatePending = errors.New("duplicate pending record")

// ErrIllegalTransition is returned when a status change is not allowed
// by the workflow's transition table, such as replying to a rental
// request that has already reached a terminal state. Handlers should
// translate this into an HTTP 409 response.
var ErrIllegalTransition = errors.New("illegal status transition")
