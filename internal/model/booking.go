package model

import "time"

// Booking payment states stored in bookings.status.  PENDING moves
// to PAID on payment confirmation or to CANCELLED on release or
// hold expiry.  PAID and CANCELLED are terminal.
const (
    BookingPending   = "PENDING"
    BookingPaid      = "PAID"
    BookingCancelled = "CANCELLED"
)

// Booking records a user's reservation of one or more seats for a
// show.  The seat set is fixed at creation and never mutated; only
// the status field transitions afterwards.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – user who placed the booking.
//  ShowID        – show being booked.
//  Status        – PENDING, PAID or CANCELLED.
//  AmountCents   – total price in cents for all seats.
//  PaymentRef    – external payment gateway reference, if any.
//  HoldExpiresAt – deadline by which a PENDING booking must be
//                  confirmed before its seats are released.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Booking struct {
    ID            uint64    // bookings.id
    UserID        uint64    // bookings.user_id
    ShowID        uint64    // bookings.show_id
    Status        string    // bookings.status
    AmountCents   uint32    // bookings.amount_cents
    PaymentRef    *string   // bookings.payment_ref (nullable)
    HoldExpiresAt time.Time // bookings.hold_expires_at
    CreatedAt     time.Time // bookings.created_at
    UpdatedAt     time.Time // bookings.updated_at
}

// BookingSeat links a booking to an individual seat of a show.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – reference to the booking.
//  ShowID     – show in which the seat is booked.
//  SeatID     – seat claimed by the booking.
//  PriceCents – price for this seat in cents.
//  CreatedAt  – creation timestamp.
type BookingSeat struct {
    ID         uint64    // booking_seats.id
    BookingID  uint64    // booking_seats.booking_id
    ShowID     uint64    // booking_seats.show_id
    SeatID     uint64    // booking_seats.seat_id
    PriceCents uint32    // booking_seats.price_cents
    CreatedAt  time.Time // booking_seats.created_at
}
