package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// BookingSeatDetail is one seat of a booking as presented to
// customers: its identity and position within the screen.
type BookingSeatDetail struct {
	SeatID     uint64 `json:"seat_id"`
	RowLabel   string `json:"row_label"`
	SeatNumber uint32 `json:"seat_number"`
	PriceCents uint32 `json:"price_cents"`
}

// BookingDetail is a booking joined with its show, movie, screen and
// cinema context plus the seats it covers.  It is the shape returned
// by the customer booking endpoints.
type BookingDetail struct {
	ID            uint64              `json:"id"`
	ShowID        uint64              `json:"show_id"`
	Status        string              `json:"status"`
	AmountCents   uint32              `json:"amount_cents"`
	PaymentRef    *string             `json:"payment_ref,omitempty"`
	HoldExpiresAt string              `json:"hold_expires_at"`
	MovieTitle    string              `json:"movie_title"`
	StartsAt      string              `json:"starts_at"`
	EndsAt        string              `json:"ends_at"`
	ScreenName    string              `json:"screen_name"`
	CinemaName    string              `json:"cinema_name"`
	City          string              `json:"city"`
	Seats         []BookingSeatDetail `json:"seats"`
}

const bookingDetailSelect = `SELECT b.id, b.show_id, b.status, b.amount_cents, b.payment_ref, b.hold_expires_at,
	       m.title, s.starts_at, s.ends_at,
	       sc.name, c.name, c.city
	FROM bookings b
	JOIN shows s   ON s.id = b.show_id
	JOIN movies m  ON m.id = s.movie_id
	JOIN screens sc ON sc.id = s.screen_id
	JOIN cinemas c ON c.id = sc.cinema_id`

// scanBookingDetail scans one joined row into a BookingDetail,
// formatting timestamps as RFC3339 in UTC.
func scanBookingDetail(scan func(dest ...any) error) (*BookingDetail, error) {
	var (
		det        BookingDetail
		paymentRef sql.NullString
		holdExp    time.Time
		startsAt   time.Time
		endsAt     time.Time
	)
	if err := scan(
		&det.ID, &det.ShowID, &det.Status, &det.AmountCents, &paymentRef, &holdExp,
		&det.MovieTitle, &startsAt, &endsAt,
		&det.ScreenName, &det.CinemaName, &det.City,
	); err != nil {
		return nil, err
	}
	if paymentRef.Valid {
		ref := paymentRef.String
		det.PaymentRef = &ref
	}
	det.HoldExpiresAt = holdExp.UTC().Format(time.RFC3339)
	det.StartsAt = startsAt.UTC().Format(time.RFC3339)
	det.EndsAt = endsAt.UTC().Format(time.RFC3339)
	det.Seats = []BookingSeatDetail{}
	return &det, nil
}

// GetByIDForUser returns a single booking with full detail for the
// given user.  It returns sql.ErrNoRows when the booking is missing
// and ErrForbidden when it belongs to another user, so handlers can
// distinguish 404 from 403.
func (s *BookingStore) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	var ownerID uint64
	if err := s.db.QueryRowContext(ctx, `SELECT user_id FROM bookings WHERE id = ?`, bookingID).Scan(&ownerID); err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrForbidden
	}

	const q = bookingDetailSelect + ` WHERE b.id = ?`
	det, err := scanBookingDetail(s.db.QueryRowContext(ctx, q, bookingID).Scan)
	if err != nil {
		return nil, err
	}
	if err := s.attachSeats(ctx, []*BookingDetail{det}); err != nil {
		return nil, err
	}
	return det, nil
}

// ListByUser returns all bookings of a user with full detail, newest
// first.  When no bookings exist, an empty slice is returned.
func (s *BookingStore) ListByUser(ctx context.Context, userID uint64) ([]*BookingDetail, error) {
	const q = bookingDetailSelect + ` WHERE b.user_id = ? ORDER BY b.created_at DESC`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]*BookingDetail, 0)
	for rows.Next() {
		det, err := scanBookingDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		details = append(details, det)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachSeats(ctx, details); err != nil {
		return nil, err
	}
	return details, nil
}

// attachSeats populates the Seats slice of every detail in one query.
func (s *BookingStore) attachSeats(ctx context.Context, details []*BookingDetail) error {
	if len(details) == 0 {
		return nil
	}
	index := make(map[uint64]*BookingDetail, len(details))
	ids := make([]any, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		index[d.ID] = d
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT bs.booking_id, bs.seat_id, se.row_label, se.seat_number, bs.price_cents
	      FROM booking_seats bs
	      JOIN seats se ON se.id = bs.seat_id
	      WHERE bs.booking_id IN (` + strings.Join(placeholders, ",") + `)
	      ORDER BY bs.booking_id, se.row_label, se.seat_number`
	rows, err := s.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			bookingID uint64
			seat      BookingSeatDetail
		)
		if err := rows.Scan(&bookingID, &seat.SeatID, &seat.RowLabel, &seat.SeatNumber, &seat.PriceCents); err != nil {
			return err
		}
		if d, ok := index[bookingID]; ok {
			d.Seats = append(d.Seats, seat)
		}
	}
	return rows.Err()
}

// OwnerForBooking reports which user a booking belongs to.  Used by
// the release endpoint to enforce ownership before touching the hold.
func (s *BookingStore) OwnerForBooking(ctx context.Context, bookingID uint64) (uint64, error) {
	var userID uint64
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM bookings WHERE id = ?`, bookingID).Scan(&userID)
	return userID, err
}
