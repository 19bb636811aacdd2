// Package repository contains the data access layer.  Each entity has
// its own file with a repo struct bound to a *sql.DB; sentinel errors
// defined here are shared across repositories so handlers can map
// failure modes onto HTTP status codes without inspecting SQL errors.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource that belongs to another user, such as reading someone
// else's booking.  Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed
// because of dependent records, such as deleting a movie that still
// has scheduled shows or a show with existing bookings.  Handlers
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
