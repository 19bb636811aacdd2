// Package repository contains data access logic separated from HTTP
// handlers.  This file defines repository methods for cinemas.  A
// cinema is a venue in a city that contains one or more screens.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

// ErrCinemaNotFound is returned when a cinema cannot be found in the DB.
var ErrCinemaNotFound = errors.New("cinema not found")

// CinemaRepo encapsulates all database queries related to cinemas.  It
// depends on a sql.DB connection which should be configured elsewhere.
type CinemaRepo struct {
	db *sql.DB
}

// NewCinemaRepo constructs a CinemaRepo with the provided DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo {
	return &CinemaRepo{db: db}
}

// Create inserts a new cinema.  On success the cinema's ID is
// populated with the auto-generated value and a follow-up SELECT
// fills the timestamp fields so callers receive a complete record.
func (r *CinemaRepo) Create(ctx context.Context, c *model.Cinema) error {
	const qInsert = `INSERT INTO cinemas (name, city) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, c.Name, c.City)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = `SELECT name, city, created_at, updated_at FROM cinemas WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.Name, &c.City, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a cinema by its ID.  It returns ErrCinemaNotFound
// when no row is found.
func (r *CinemaRepo) GetByID(ctx context.Context, id uint64) (*model.Cinema, error) {
	const q = `SELECT id, name, city, created_at, updated_at FROM cinemas WHERE id = ?`
	var c model.Cinema
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.City, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCinemaNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns cinemas ordered by name.  When city is non-empty the
// result is restricted to that city, matched case-insensitively.
func (r *CinemaRepo) List(ctx context.Context, city string) ([]*model.Cinema, error) {
	q := `SELECT id, name, city, created_at, updated_at FROM cinemas`
	args := []any{}
	if city = strings.TrimSpace(city); city != "" {
		q += ` WHERE LOWER(city) = ?`
		args = append(args, strings.ToLower(city))
	}
	q += ` ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Cinema
	for rows.Next() {
		c := new(model.Cinema)
		if err := rows.Scan(&c.ID, &c.Name, &c.City, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update renames or relocates a cinema.  It returns ErrCinemaNotFound
// when no row with the given ID exists.
func (r *CinemaRepo) Update(ctx context.Context, c *model.Cinema) error {
	const q = `UPDATE cinemas
	           SET name = ?, city = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.City, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM cinemas WHERE id = ? LIMIT 1`, c.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCinemaNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a cinema.  The delete is refused with ErrConflict
// while any screen still belongs to the cinema; screens must be
// removed first so that no show or booking is orphaned implicitly.
func (r *CinemaRepo) Delete(ctx context.Context, id uint64) error {
	var screenCount int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM screens WHERE cinema_id = ?`, id).Scan(&screenCount); err != nil {
		return err
	}
	if screenCount > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM cinemas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCinemaNotFound
	}
	return nil
}
