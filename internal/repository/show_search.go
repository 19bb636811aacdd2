package repository

import (
	"context"
	"strings"
	"time"
)

// ShowSearchQuery defines filters & pagination for searching shows.
// All text filters are matched case-insensitively as substrings.
type ShowSearchQuery struct {
	MovieTitle string
	Cinema     string
	City       string
	Date       string // YYYY-MM-DD; restricts to shows starting that day (UTC)
	Page       int
	PageSize   int
}

// PublicShowRow is the flattened search result row joined across
// shows, movies, screens and cinemas for public browse responses.
type PublicShowRow struct {
	ID         uint64  `json:"id"`
	MovieID    uint64  `json:"movie_id"`
	MovieTitle string  `json:"movie_title"`
	ScreenID   uint64  `json:"screen_id"`
	ScreenName string  `json:"screen_name"`
	CinemaID   uint64  `json:"cinema_id"`
	CinemaName string  `json:"cinema_name"`
	City       string  `json:"city"`
	StartsAt   string  `json:"starts_at"`
	EndsAt     string  `json:"ends_at"`
	PriceCents uint64  `json:"price_cents"`
	Price      float64 `json:"price"`
}

// SearchUpcoming returns SCHEDULED shows that have not started yet,
// filtered and paginated, together with the total match count for
// pagination headers.
func (r *ShowRepo) SearchUpcoming(ctx context.Context, q ShowSearchQuery) ([]PublicShowRow, int64, error) {
	where := []string{"s.status = 'SCHEDULED'", "s.starts_at >= NOW()"}
	args := []any{}

	if q.MovieTitle != "" {
		where = append(where, "LOWER(m.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.MovieTitle)+"%")
	}
	if q.Cinema != "" {
		where = append(where, "LOWER(c.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Cinema)+"%")
	}
	if q.City != "" {
		where = append(where, "LOWER(c.city) = ?")
		args = append(args, strings.ToLower(q.City))
	}
	if q.Date != "" {
		if day, err := time.Parse("2006-01-02", q.Date); err == nil {
			where = append(where, "s.starts_at >= ? AND s.starts_at < ?")
			args = append(args, day, day.Add(24*time.Hour))
		}
	}

	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM shows s
		JOIN movies m  ON m.id = s.movie_id
		JOIN screens sc ON sc.id = s.screen_id
		JOIN cinemas c ON c.id = sc.cinema_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			s.id,
			m.id   AS movie_id,
			m.title AS movie_title,
			sc.id  AS screen_id,
			sc.name AS screen_name,
			c.id   AS cinema_id,
			c.name AS cinema_name,
			c.city,
			DATE_FORMAT(s.starts_at, '%Y-%m-%d %T') AS starts_at,
			DATE_FORMAT(s.ends_at,   '%Y-%m-%d %T') AS ends_at,
			COALESCE(s.base_price_cents, 0) AS price_cents
		FROM shows s
		JOIN movies m  ON m.id = s.movie_id
		JOIN screens sc ON sc.id = s.screen_id
		JOIN cinemas c ON c.id = sc.cinema_id
		WHERE ` + cond + `
		ORDER BY s.starts_at ASC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicShowRow, 0, limit)
	for rows.Next() {
		var d PublicShowRow
		if err := rows.Scan(
			&d.ID,
			&d.MovieID,
			&d.MovieTitle,
			&d.ScreenID,
			&d.ScreenName,
			&d.CinemaID,
			&d.CinemaName,
			&d.City,
			&d.StartsAt,
			&d.EndsAt,
			&d.PriceCents,
		); err != nil {
			return nil, 0, err
		}
		d.Price = float64(d.PriceCents) / 100.0
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
