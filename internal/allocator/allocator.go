package allocator

import (
    "context"
    "time"

    "github.com/prasant-0n/BookMyShowtime-backend/internal/clock"
    "github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

// defaultHoldTTL is the hold window applied when no override is
// configured: a PENDING booking not confirmed within it is releasable.
const defaultHoldTTL = 10 * time.Minute

// Allocator reserves seats for shows.  The read-check-then-write
// sequence for one show is serialized by the Store: the show row is
// locked and seat transitions are conditional updates, so concurrent
// requests for overlapping seats cannot both succeed.
type Allocator struct {
    store    Store
    clock    clock.Clock
    notifier Notifier
    holdTTL  time.Duration
}

// Option customizes an Allocator.
type Option func(*Allocator)

// WithHoldTTL overrides the default hold window.  Non-positive values
// are ignored.
func WithHoldTTL(d time.Duration) Option {
    return func(a *Allocator) {
        if d > 0 {
            a.holdTTL = d
        }
    }
}

// WithNotifier attaches a notifier informed of PAID and CANCELLED
// transitions after commit.
func WithNotifier(n Notifier) Option {
    return func(a *Allocator) {
        a.notifier = n
    }
}

// New constructs an Allocator bound to the given store and clock.
func New(store Store, clk clock.Clock, opts ...Option) *Allocator {
    a := &Allocator{
        store:   store,
        clock:   clk,
        holdTTL: defaultHoldTTL,
    }
    for _, opt := range opts {
        opt(a)
    }
    return a
}

// PlaceBookingInput describes one booking request.
type PlaceBookingInput struct {
    ShowID  uint64
    UserID  uint64
    SeatIDs []uint64
}

// PlaceBooking validates the request, atomically transitions the
// requested seats from AVAILABLE to HELD and creates a PENDING booking
// with a hold deadline.  Preconditions are checked in order: the show
// exists and has not started, every seat belongs to the show's layout,
// and every seat is currently AVAILABLE.  On any failure the
// transaction rolls back, so no partial reservation is ever left
// behind.
func (a *Allocator) PlaceBooking(ctx context.Context, in PlaceBookingInput) (model.Booking, error) {
    seatIDs, err := normalizeSelection(in.SeatIDs)
    if err != nil {
        return model.Booking{}, err
    }

    now := a.clock.Now()
    var out model.Booking

    err = a.store.WithTx(ctx, func(txCtx context.Context) error {
        show, err := a.store.GetShowForUpdate(txCtx, in.ShowID)
        if err != nil {
            return err
        }
        // A cancelled show no longer offers seats; treat it the same
        // as a missing one.
        if show.Status != model.ShowScheduled {
            return ErrShowNotFound
        }
        if !show.StartsAt.After(now) {
            return ErrShowAlreadyStarted
        }

        n, err := a.store.CountShowSeats(txCtx, in.ShowID, seatIDs)
        if err != nil {
            return err
        }
        if n != len(seatIDs) {
            return ErrInvalidSeatSelection
        }

        // The single conditional update is the serialization point: a
        // short count means another booking claimed a seat first, and
        // the rollback undoes whatever subset was transitioned.
        held, err := a.store.TransitionSeats(txCtx, in.ShowID, seatIDs, model.SeatAvailable, model.SeatHeld)
        if err != nil {
            return err
        }
        if held != int64(len(seatIDs)) {
            return ErrSeatUnavailable
        }

        prices, err := a.store.SeatPrices(txCtx, in.ShowID, seatIDs)
        if err != nil {
            return err
        }
        var total uint32
        for _, sid := range seatIDs {
            total += prices[sid]
        }

        b := model.Booking{
            UserID:        in.UserID,
            ShowID:        in.ShowID,
            Status:        model.BookingPending,
            AmountCents:   total,
            HoldExpiresAt: now.Add(a.holdTTL),
        }
        if err := a.store.CreateBooking(txCtx, &b, seatIDs); err != nil {
            return err
        }
        out = b
        return nil
    })
    if err != nil {
        return model.Booking{}, err
    }
    return out, nil
}

// ConfirmBooking finalizes a pending booking after payment: its seats
// move HELD → BOOKED and the booking PENDING → PAID.  Confirming an
// already PAID booking is a no-op returning the booking unchanged.  A
// cancelled booking, or one whose hold window elapsed, yields
// ErrBookingExpired; in the latter case the seats are released within
// the same transaction so a later sweep finds nothing to do.
func (a *Allocator) ConfirmBooking(ctx context.Context, bookingID uint64) (model.Booking, error) {
    now := a.clock.Now()
    var (
        out         model.Booking
        seats       []uint64
        expired     bool
        releasedNow bool
    )

    err := a.store.WithTx(ctx, func(txCtx context.Context) error {
        b, seatIDs, err := a.store.GetBookingForUpdate(txCtx, bookingID)
        if err != nil {
            return err
        }
        seats = seatIDs

        switch b.Status {
        case model.BookingPaid:
            out = b
            return nil
        case model.BookingCancelled:
            expired = true
            out = b
            return nil
        }

        if !b.HoldExpiresAt.After(now) {
            if err := a.release(txCtx, &b, seatIDs); err != nil {
                return err
            }
            expired = true
            releasedNow = true
            out = b
            return nil
        }

        if _, err := a.store.TransitionSeats(txCtx, b.ShowID, seatIDs, model.SeatHeld, model.SeatBooked); err != nil {
            return err
        }
        if _, err := a.store.UpdateBookingStatus(txCtx, b.ID, model.BookingPending, model.BookingPaid); err != nil {
            return err
        }
        b.Status = model.BookingPaid
        out = b
        return nil
    })
    if err != nil {
        return model.Booking{}, err
    }
    if expired {
        if releasedNow && a.notifier != nil {
            a.notifier.BookingCancelled(ctx, out, seats)
        }
        return model.Booking{}, ErrBookingExpired
    }
    if a.notifier != nil {
        a.notifier.BookingPaid(ctx, out, seats)
    }
    return out, nil
}

// ReleaseHold cancels a pending booking and returns its seats to
// AVAILABLE.  It is idempotent: calling it on an already CANCELLED
// booking does nothing, and calling it on a PAID booking never touches
// the booking or its seats.
func (a *Allocator) ReleaseHold(ctx context.Context, bookingID uint64) error {
    var (
        released bool
        out      model.Booking
        seats    []uint64
    )

    err := a.store.WithTx(ctx, func(txCtx context.Context) error {
        b, seatIDs, err := a.store.GetBookingForUpdate(txCtx, bookingID)
        if err != nil {
            return err
        }
        if b.Status != model.BookingPending {
            return nil
        }
        if err := a.release(txCtx, &b, seatIDs); err != nil {
            return err
        }
        released = true
        out = b
        seats = seatIDs
        return nil
    })
    if err != nil {
        return err
    }
    if released && a.notifier != nil {
        a.notifier.BookingCancelled(ctx, out, seats)
    }
    return nil
}

// ReleaseExpired releases every PENDING booking whose hold window has
// elapsed and reports how many were cancelled.  It is driven by a
// periodic sweep; racing with a concurrent ConfirmBooking is safe
// because both lock the booking row before transitioning it.
func (a *Allocator) ReleaseExpired(ctx context.Context) (int, error) {
    const batch = 100
    ids, err := a.store.ListExpiredPending(ctx, a.clock.Now(), batch)
    if err != nil {
        return 0, err
    }
    released := 0
    for _, id := range ids {
        if err := a.ReleaseHold(ctx, id); err != nil {
            // A booking deleted or confirmed since listing is not a
            // sweep failure.
            if err == ErrBookingNotFound {
                continue
            }
            return released, err
        }
        released++
    }
    return released, nil
}

// release transitions a pending booking's seats HELD → AVAILABLE and
// the booking PENDING → CANCELLED within the caller's transaction.
func (a *Allocator) release(ctx context.Context, b *model.Booking, seatIDs []uint64) error {
    if _, err := a.store.TransitionSeats(ctx, b.ShowID, seatIDs, model.SeatHeld, model.SeatAvailable); err != nil {
        return err
    }
    if _, err := a.store.UpdateBookingStatus(ctx, b.ID, model.BookingPending, model.BookingCancelled); err != nil {
        return err
    }
    b.Status = model.BookingCancelled
    return nil
}

// normalizeSelection validates the requested seat IDs: the set must be
// non-empty and free of zeros and duplicates.  Order is preserved.
func normalizeSelection(seatIDs []uint64) ([]uint64, error) {
    if len(seatIDs) == 0 {
        return nil, ErrInvalidSeatSelection
    }
    seen := make(map[uint64]struct{}, len(seatIDs))
    out := make([]uint64, 0, len(seatIDs))
    for _, id := range seatIDs {
        if id == 0 {
            return nil, ErrInvalidSeatSelection
        }
        if _, dup := seen[id]; dup {
            return nil, ErrInvalidSeatSelection
        }
        seen[id] = struct{}{}
        out = append(out, id)
    }
    return out, nil
}
