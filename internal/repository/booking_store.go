// Package repository contains data access logic for bookings.  This
// file implements the persistence contract of the booking allocator.
// All allocator writes flow through one transaction carried in the
// context, so the conditional seat updates and the booking row are
// committed or rolled back as a unit.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/allocator"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

// txKey is the context key under which WithTx stores the transaction.
type txKey struct{}

// querier is the subset of database operations shared by *sql.DB and
// *sql.Tx, letting every query run either standalone or inside the
// allocator's transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// BookingStore is the MySQL implementation of allocator.Store.  It
// also carries the read-side booking queries used by handlers.
type BookingStore struct {
	db *sql.DB
}

// NewBookingStore constructs a BookingStore with the given DB handle.
func NewBookingStore(db *sql.DB) *BookingStore {
	return &BookingStore{db: db}
}

// q returns the transaction from ctx when present, the bare DB
// otherwise.
func (s *BookingStore) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// WithTx runs fn inside a transaction stored in the context, so every
// store call made by fn participates in it.  A nested call reuses the
// caller's transaction instead of opening a second one.
func (s *BookingStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetShowForUpdate loads a show and locks its row with FOR UPDATE,
// serializing allocation per show for the rest of the transaction.
func (s *BookingStore) GetShowForUpdate(ctx context.Context, showID uint64) (model.Show, error) {
	const q = `SELECT id, movie_id, screen_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
	           FROM shows WHERE id = ? FOR UPDATE`
	var sh model.Show
	err := s.q(ctx).QueryRowContext(ctx, q, showID).Scan(
		&sh.ID, &sh.MovieID, &sh.ScreenID, &sh.StartsAt, &sh.EndsAt, &sh.BasePriceCents, &sh.Status, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Show{}, allocator.ErrShowNotFound
		}
		return model.Show{}, err
	}
	return sh, nil
}

// CountShowSeats reports how many of the given seat IDs belong to the
// show's materialized inventory.
func (s *BookingStore) CountShowSeats(ctx context.Context, showID uint64, seatIDs []uint64) (int, error) {
	q := `SELECT COUNT(*) FROM show_seats WHERE show_id = ? AND seat_id IN (` + inPlaceholders(len(seatIDs)) + `)`
	args := make([]any, 0, len(seatIDs)+1)
	args = append(args, showID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	var n int
	err := s.q(ctx).QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

// SeatPrices returns the price in cents per seat ID for the show.
func (s *BookingStore) SeatPrices(ctx context.Context, showID uint64, seatIDs []uint64) (map[uint64]uint32, error) {
	q := `SELECT seat_id, price_cents FROM show_seats WHERE show_id = ? AND seat_id IN (` + inPlaceholders(len(seatIDs)) + `)`
	args := make([]any, 0, len(seatIDs)+1)
	args = append(args, showID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := s.q(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make(map[uint64]uint32, len(seatIDs))
	for rows.Next() {
		var (
			seatID uint64
			cents  uint32
		)
		if err := rows.Scan(&seatID, &cents); err != nil {
			return nil, err
		}
		prices[seatID] = cents
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return prices, nil
}

// TransitionSeats conditionally moves the given seats of a show from
// one status to another in a single UPDATE and reports the affected
// row count.  A count short of len(seatIDs) means some seat was not
// in the expected state; the allocator rolls the transaction back.
func (s *BookingStore) TransitionSeats(ctx context.Context, showID uint64, seatIDs []uint64, from, to string) (int64, error) {
	q := `UPDATE show_seats
	      SET status = ?, updated_at = CURRENT_TIMESTAMP
	      WHERE show_id = ? AND status = ? AND seat_id IN (` + inPlaceholders(len(seatIDs)) + `)`
	args := make([]any, 0, len(seatIDs)+3)
	args = append(args, to, showID, from)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	res, err := s.q(ctx).ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateBooking inserts the booking row and one booking_seats row per
// seat, copying each seat's price from the inventory.  The generated
// ID and DB-default timestamps are populated on b.
func (s *BookingStore) CreateBooking(ctx context.Context, b *model.Booking, seatIDs []uint64) error {
	const q = `INSERT INTO bookings (user_id, show_id, status, amount_cents, hold_expires_at) VALUES (?, ?, ?, ?, ?)`
	res, err := s.q(ctx).ExecContext(ctx, q, b.UserID, b.ShowID, b.Status, b.AmountCents, b.HoldExpiresAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	seatsQ := `INSERT INTO booking_seats (booking_id, show_id, seat_id, price_cents)
	           SELECT ?, show_id, seat_id, price_cents
	           FROM show_seats
	           WHERE show_id = ? AND seat_id IN (` + inPlaceholders(len(seatIDs)) + `)`
	args := make([]any, 0, len(seatIDs)+2)
	args = append(args, b.ID, b.ShowID)
	for _, sid := range seatIDs {
		args = append(args, sid)
	}
	if _, err := s.q(ctx).ExecContext(ctx, seatsQ, args...); err != nil {
		return err
	}

	const sel = `SELECT status, created_at, updated_at FROM bookings WHERE id = ?`
	return s.q(ctx).QueryRowContext(ctx, sel, b.ID).Scan(&b.Status, &b.CreatedAt, &b.UpdatedAt)
}

// GetBookingForUpdate loads a booking and its seat IDs, locking the
// booking row so that payment confirmation and the expiry sweep agree
// on a single winner.
func (s *BookingStore) GetBookingForUpdate(ctx context.Context, bookingID uint64) (model.Booking, []uint64, error) {
	const q = `SELECT id, user_id, show_id, status, amount_cents, payment_ref, hold_expires_at, created_at, updated_at
	           FROM bookings WHERE id = ? FOR UPDATE`
	var (
		b          model.Booking
		paymentRef sql.NullString
	)
	err := s.q(ctx).QueryRowContext(ctx, q, bookingID).Scan(
		&b.ID, &b.UserID, &b.ShowID, &b.Status, &b.AmountCents, &paymentRef, &b.HoldExpiresAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, nil, allocator.ErrBookingNotFound
		}
		return model.Booking{}, nil, err
	}
	if paymentRef.Valid {
		ref := paymentRef.String
		b.PaymentRef = &ref
	}

	const seatQ = `SELECT seat_id FROM booking_seats WHERE booking_id = ? ORDER BY seat_id`
	rows, err := s.q(ctx).QueryContext(ctx, seatQ, bookingID)
	if err != nil {
		return model.Booking{}, nil, err
	}
	defer rows.Close()
	var seatIDs []uint64
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			return model.Booking{}, nil, err
		}
		seatIDs = append(seatIDs, sid)
	}
	if err := rows.Err(); err != nil {
		return model.Booking{}, nil, err
	}
	return b, seatIDs, nil
}

// UpdateBookingStatus conditionally transitions a booking's status and
// reports whether a row changed.
func (s *BookingStore) UpdateBookingStatus(ctx context.Context, bookingID uint64, from, to string) (bool, error) {
	const q = `UPDATE bookings
	           SET status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = ?`
	res, err := s.q(ctx).ExecContext(ctx, q, to, bookingID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetPaymentRef records the external payment gateway reference on a
// booking.  Called by the payment webhook before confirmation so the
// reference survives even when the hold has already expired.
func (s *BookingStore) SetPaymentRef(ctx context.Context, bookingID uint64, ref string) error {
	const q = `UPDATE bookings SET payment_ref = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := s.q(ctx).ExecContext(ctx, q, ref, bookingID)
	return err
}

// ListExpiredPending returns IDs of PENDING bookings whose hold
// deadline elapsed at or before now, oldest first.
func (s *BookingStore) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]uint64, error) {
	const q = `SELECT id FROM bookings
	           WHERE status = 'PENDING' AND hold_expires_at <= ?
	           ORDER BY hold_expires_at ASC
	           LIMIT ?`
	rows, err := s.q(ctx).QueryContext(ctx, q, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// inPlaceholders renders n comma-separated '?' markers for an IN
// clause.  n must be at least 1; the allocator validates selections
// before any query is built.
func inPlaceholders(n int) string {
	if n <= 0 {
		return "NULL"
	}
	return strings.Repeat("?,", n-1) + "?"
}
