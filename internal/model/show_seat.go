package model

import "time"

// Seat inventory states stored in show_seats.status.  A seat is
// AVAILABLE until a booking holds it, HELD while a pending booking
// awaits payment, and BOOKED once the booking is paid.  Transitions
// happen only through the booking allocator's conditional updates.
const (
    SeatAvailable = "AVAILABLE"
    SeatHeld      = "HELD"
    SeatBooked    = "BOOKED"
)

// ShowSeat links a physical seat to a particular show and tracks
// its availability and price.  One show_seat row exists for every
// seat of the screen when a show is created.
//
// Fields:
//  ID         – primary key identifier.
//  ShowID     – show this inventory row belongs to.
//  SeatID     – the physical seat being offered.
//  Status     – AVAILABLE, HELD or BOOKED.
//  PriceCents – price in cents for this seat at this show.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type ShowSeat struct {
    ID         uint64    // show_seats.id
    ShowID     uint64    // show_seats.show_id
    SeatID     uint64    // show_seats.seat_id
    Status     string    // show_seats.status
    PriceCents uint32    // show_seats.price_cents
    CreatedAt  time.Time // show_seats.created_at
    UpdatedAt  time.Time // show_seats.updated_at
}
