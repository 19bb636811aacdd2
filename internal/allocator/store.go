package allocator

import (
    "context"
    "time"

    "github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

// Store is the persistence contract the allocator needs.  All methods
// except WithTx must be called inside the closure passed to WithTx so
// that they participate in the same transaction; implementations carry
// the transaction in the context.  The MySQL implementation lives in
// internal/repository.
type Store interface {
    // WithTx runs fn inside a transaction, committing when fn returns
    // nil and rolling back otherwise.
    WithTx(ctx context.Context, fn func(ctx context.Context) error) error

    // GetShowForUpdate loads a show and locks its row for the duration
    // of the transaction, serializing allocation per show.  It returns
    // ErrShowNotFound when the show does not exist.
    GetShowForUpdate(ctx context.Context, showID uint64) (model.Show, error)

    // CountShowSeats reports how many of the given seat IDs belong to
    // the show's layout.
    CountShowSeats(ctx context.Context, showID uint64, seatIDs []uint64) (int, error)

    // SeatPrices returns the price in cents per seat ID for the show.
    SeatPrices(ctx context.Context, showID uint64, seatIDs []uint64) (map[uint64]uint32, error)

    // TransitionSeats conditionally moves the given seats of a show
    // from one status to another and reports how many rows changed.
    // A result smaller than len(seatIDs) means some seat was not in
    // the expected state; the caller rolls the transaction back.
    TransitionSeats(ctx context.Context, showID uint64, seatIDs []uint64, from, to string) (int64, error)

    // CreateBooking inserts a booking and its booking_seats rows,
    // populating the generated ID and timestamps on b.
    CreateBooking(ctx context.Context, b *model.Booking, seatIDs []uint64) error

    // GetBookingForUpdate loads a booking and its seat IDs, locking
    // the booking row so that confirmation and the expiry sweep agree
    // on a single winner.  Returns ErrBookingNotFound when absent.
    GetBookingForUpdate(ctx context.Context, bookingID uint64) (model.Booking, []uint64, error)

    // UpdateBookingStatus conditionally transitions a booking's status
    // and reports whether a row changed.
    UpdateBookingStatus(ctx context.Context, bookingID uint64, from, to string) (bool, error)

    // ListExpiredPending returns IDs of PENDING bookings whose hold
    // window elapsed at or before now, oldest first.
    ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]uint64, error)
}

// Notifier receives booking lifecycle events after the transaction
// commits.  Notifications are fire-and-forget: failures are the
// notifier's problem and never affect the booking outcome.
type Notifier interface {
    BookingPaid(ctx context.Context, b model.Booking, seatIDs []uint64)
    BookingCancelled(ctx context.Context, b model.Booking, seatIDs []uint64)
}
