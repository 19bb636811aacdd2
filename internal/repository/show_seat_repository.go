package repository

import (
	"context"
	"database/sql"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

// ShowSeatRepo encapsulates database operations for show_seats, the
// per-show seat inventory the booking allocator transitions.
type ShowSeatRepo struct {
	db *sql.DB
}

// NewShowSeatRepo constructs a ShowSeatRepo given a DB handle.
func NewShowSeatRepo(db *sql.DB) *ShowSeatRepo {
	return &ShowSeatRepo{db: db}
}

// CreateBulkTx inserts one show_seat row per seat in a single
// statement within the caller's transaction.  It is called when a
// show is created, so the insert must be atomic with the show row.
// Timestamps default in the DB; generated IDs are not populated.
func (r *ShowSeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.ShowSeat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO show_seats (show_id, seat_id, status, price_cents) VALUES `
	args := make([]any, 0, len(seats)*4)
	for i, ss := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, ss.ShowID, ss.SeatID, ss.Status, ss.PriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// SeatAvailabilityRow is one seat of a show's seat map as shown to
// customers picking seats: position, class, price and current status.
type SeatAvailabilityRow struct {
	SeatID     uint64 `json:"seat_id"`
	RowLabel   string `json:"row_label"`
	SeatNumber uint32 `json:"seat_number"`
	SeatType   string `json:"seat_type"`
	Status     string `json:"status"`
	PriceCents uint32 `json:"price_cents"`
}

// ListByShow returns the seat map of a show ordered by row and seat
// number.  An empty result means the show does not exist or has no
// materialized inventory; callers check show existence separately.
func (r *ShowSeatRepo) ListByShow(ctx context.Context, showID uint64) ([]SeatAvailabilityRow, error) {
	const q = `SELECT ss.seat_id, se.row_label, se.seat_number, se.seat_type, ss.status, ss.price_cents
	           FROM show_seats ss
	           JOIN seats se ON se.id = ss.seat_id
	           WHERE ss.show_id = ?
	           ORDER BY se.row_label, se.seat_number`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SeatAvailabilityRow, 0)
	for rows.Next() {
		var row SeatAvailabilityRow
		if err := rows.Scan(&row.SeatID, &row.RowLabel, &row.SeatNumber, &row.SeatType, &row.Status, &row.PriceCents); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
