package repository

import (
	"context"
	"database/sql"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

// SeatRepo manages the physical seat layout of screens.  Seats are
// created in bulk when an admin defines a screen's layout and are
// referenced by show_seats when shows are scheduled.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CreateBulk inserts multiple seats for a screen in a single
// statement.  Passing an empty slice has no effect and returns nil.
// The generated IDs are not populated on the passed structures;
// callers reload the layout with ListByScreen when they need them.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (screen_id, row_label, seat_number, seat_type) VALUES `
	args := make([]any, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.ScreenID, s.RowLabel, s.SeatNumber, s.SeatType)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ListByScreen returns the full layout of a screen ordered by row and
// seat number for deterministic output.
func (r *SeatRepo) ListByScreen(ctx context.Context, screenID uint64) ([]model.Seat, error) {
	const q = `SELECT id, screen_id, row_label, seat_number, seat_type, created_at, updated_at
	           FROM seats WHERE screen_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, screenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ScreenID, &s.RowLabel, &s.SeatNumber, &s.SeatType, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByScreen reports how many seats a screen has.
func (r *SeatRepo) CountByScreen(ctx context.Context, screenID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats WHERE screen_id = ?`, screenID).Scan(&n)
	return n, err
}
