// Package allocator implements the booking allocator: it decides
// whether a set of seats can be reserved for a show and performs the
// reservation atomically, guaranteeing that no seat is ever claimed
// by two non-cancelled bookings of the same show.
package allocator

import "errors"

// Sentinel errors returned by the allocator.  All of them are
// recoverable at the caller; handlers translate each into a 4xx
// response and never into a 5xx.
var (
    // ErrShowNotFound is returned when the show does not exist or
    // has been cancelled.
    ErrShowNotFound = errors.New("show not found")

    // ErrShowAlreadyStarted is returned when seats are requested for
    // a show whose start time has passed.
    ErrShowAlreadyStarted = errors.New("show already started")

    // ErrInvalidSeatSelection is returned when the requested seat set
    // is empty, contains duplicates, or names seats that are not part
    // of the show's layout.
    ErrInvalidSeatSelection = errors.New("invalid seat selection")

    // ErrSeatUnavailable is returned when one or more requested seats
    // are no longer AVAILABLE.  Callers should re-fetch the layout and
    // retry with a different selection; the allocator never retries.
    ErrSeatUnavailable = errors.New("seat unavailable")

    // ErrBookingExpired is returned by ConfirmBooking when the booking
    // was cancelled or its hold window elapsed before confirmation.
    ErrBookingExpired = errors.New("booking expired")

    // ErrBookingNotFound is returned when no booking with the given ID
    // exists.
    ErrBookingNotFound = errors.New("booking not found")
)
