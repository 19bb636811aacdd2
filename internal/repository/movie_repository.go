// Package repository contains data access logic separated from HTTP
// handlers.  This file covers the movie catalog.  Movies are global
// entities managed by admins; shows reference them by ID.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

// ErrMovieNotFound is returned when a movie cannot be found in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo encapsulates all database queries related to movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts a new movie.  On success the movie's ID and
// timestamp fields are populated from the stored row.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const qInsert = `INSERT INTO movies (title, description, genre, duration_min, rating) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, m.Title, m.Description, m.Genre, m.DurationMin, m.Rating)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	const qSelect = `SELECT title, description, genre, duration_min, rating, created_at, updated_at FROM movies WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, m.ID).Scan(
		&m.Title, &m.Description, &m.Genre, &m.DurationMin, &m.Rating, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID fetches a movie by its ID.  It returns ErrMovieNotFound when
// no row matches.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, description, genre, duration_min, rating, created_at, updated_at FROM movies WHERE id = ?`
	var m model.Movie
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.Genre, &m.DurationMin, &m.Rating, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns movies ordered by title.  An optional genre filter is
// applied case-insensitively when non-empty.
func (r *MovieRepo) List(ctx context.Context, genre string) ([]*model.Movie, error) {
	q := `SELECT id, title, description, genre, duration_min, rating, created_at, updated_at FROM movies`
	args := []any{}
	if genre = strings.TrimSpace(genre); genre != "" {
		q += ` WHERE LOWER(genre) = ?`
		args = append(args, strings.ToLower(genre))
	}
	q += ` ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Movie
	for rows.Next() {
		m := new(model.Movie)
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Genre, &m.DurationMin, &m.Rating, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites a movie's attributes.  It returns ErrMovieNotFound
// when no row with the given ID exists.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies
	           SET title = ?, description = ?, genre = ?, duration_min = ?, rating = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Description, m.Genre, m.DurationMin, m.Rating, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "missing" from "values identical": an UPDATE
		// that sets a row to its current values affects zero rows.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ? LIMIT 1`, m.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMovieNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a movie.  It returns ErrConflict when any show still
// references the movie and ErrMovieNotFound when no row matches.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	var showCount int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shows WHERE movie_id = ?`, id).Scan(&showCount); err != nil {
		return err
	}
	if showCount > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
