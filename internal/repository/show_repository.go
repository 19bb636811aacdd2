// Package repository contains data access logic for show scheduling.
// A show is a screening of a movie on a screen; creating one also
// materializes a show_seats inventory row per physical seat, which is
// why creation runs inside a caller-provided transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories, such as show creation
// which inserts the show and its seat inventory atomically.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

// CreateTx inserts a new show using the provided transaction.  The
// caller must commit or roll back.  On success the generated ID and
// DB-default fields (status, timestamps) are populated on s.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error {
	const q = `INSERT INTO shows (movie_id, screen_id, starts_at, ends_at, base_price_cents) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.MovieID, s.ScreenID, s.StartsAt, s.EndsAt, s.BasePriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const sel = `SELECT movie_id, screen_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
	             FROM shows WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, s.ID).Scan(
		&s.MovieID, &s.ScreenID, &s.StartsAt, &s.EndsAt, &s.BasePriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, movie_id, screen_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
	           FROM shows WHERE id = ?`
	var s model.Show
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.ScreenID, &s.StartsAt, &s.EndsAt, &s.BasePriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByScreen returns all shows scheduled on a screen ordered by
// start time ascending.
func (r *ShowRepo) ListByScreen(ctx context.Context, screenID uint64) ([]model.Show, error) {
	const q = `SELECT id, movie_id, screen_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
	           FROM shows WHERE screen_id = ?
	           ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, screenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Show
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.MovieID, &s.ScreenID, &s.StartsAt, &s.EndsAt, &s.BasePriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountOverlappingTx reports how many non-cancelled shows on the
// screen overlap the interval [starts, ends) inside the caller's
// transaction.  Two shows overlap when one starts before the other
// ends; back-to-back shows sharing a boundary instant do not.
func (r *ShowRepo) CountOverlappingTx(ctx context.Context, tx *sql.Tx, screenID uint64, starts, ends time.Time) (int, error) {
	const q = `SELECT COUNT(*)
	           FROM shows
	           WHERE screen_id = ? AND status <> 'CANCELLED' AND NOT (ends_at <= ? OR starts_at >= ?)`
	var n int
	err := tx.QueryRowContext(ctx, q, screenID, starts, ends).Scan(&n)
	return n, err
}

// Cancel transitions a SCHEDULED show to CANCELLED.  The transition is
// refused with ErrConflict while PAID bookings exist for the show;
// those seats are sold and cancellation would require a refund flow.
// Pending holds are left to expire through the normal sweep.
func (r *ShowRepo) Cancel(ctx context.Context, id uint64) error {
	var paid int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE show_id = ? AND status = 'PAID'`, id).Scan(&paid); err != nil {
		return err
	}
	if paid > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE shows SET status = 'CANCELLED', updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = 'SCHEDULED'`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM shows WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrShowNotFound
			}
			return err
		}
		// Row exists but is already CANCELLED or FINISHED.
		return ErrConflict
	}
	return nil
}

// Delete removes a show and its seat inventory.  If the show does not
// exist, ErrShowNotFound is returned.  If any bookings reference the
// show, the deletion is aborted with ErrConflict.
func (r *ShowRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var one int
	if err = tx.QueryRowContext(ctx, `SELECT 1 FROM shows WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrShowNotFound
		}
		return err
	}
	var bookingCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE show_id = ?`, id).Scan(&bookingCount); err != nil {
		return err
	}
	if bookingCount > 0 {
		err = ErrConflict
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM show_seats WHERE show_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
