package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

// ErrScreenNotFound is returned when a screen cannot be found in the DB.
var ErrScreenNotFound = errors.New("screen not found")

// ScreenRepo manages persistence for screens, the auditoriums inside a
// cinema that shows are scheduled on.
type ScreenRepo struct {
	db *sql.DB
}

// NewScreenRepo constructs a ScreenRepo with the given DB handle.
func NewScreenRepo(db *sql.DB) *ScreenRepo {
	return &ScreenRepo{db: db}
}

// Create inserts a new screen under a cinema and populates the
// generated ID and timestamps on s.
func (r *ScreenRepo) Create(ctx context.Context, s *model.Screen) error {
	const qInsert = `INSERT INTO screens (cinema_id, name) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, s.CinemaID, s.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = `SELECT cinema_id, name, created_at, updated_at FROM screens WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, s.ID).Scan(&s.CinemaID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID fetches a screen by its ID.  It returns ErrScreenNotFound
// when no row matches.
func (r *ScreenRepo) GetByID(ctx context.Context, id uint64) (*model.Screen, error) {
	const q = `SELECT id, cinema_id, name, created_at, updated_at FROM screens WHERE id = ?`
	var s model.Screen
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.CinemaID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreenNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByCinema returns all screens of a cinema ordered by name.
func (r *ScreenRepo) ListByCinema(ctx context.Context, cinemaID uint64) ([]*model.Screen, error) {
	const q = `SELECT id, cinema_id, name, created_at, updated_at
	           FROM screens WHERE cinema_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, cinemaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Screen
	for rows.Next() {
		s := new(model.Screen)
		if err := rows.Scan(&s.ID, &s.CinemaID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a screen together with its seat layout.  The delete
// is refused with ErrConflict while any show is scheduled on the
// screen; shows reference the layout through show_seats.
func (r *ScreenRepo) Delete(ctx context.Context, id uint64) error {
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
	if err = tx.QueryRowContext(ctx, `SELECT 1 FROM screens WHERE id = ? LIMIT 1`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrScreenNotFound
		}
		return err
	}
	var showCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM shows WHERE screen_id = ?`, id).Scan(&showCount); err != nil {
		return err
	}
	if showCount > 0 {
		err = ErrConflict
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM seats WHERE screen_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM screens WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
