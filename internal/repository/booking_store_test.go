package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/allocator"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/clock"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

var storeNow = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func showColumns() []string {
	return []string{"id", "movie_id", "screen_id", "starts_at", "ends_at", "base_price_cents", "status", "created_at", "updated_at"}
}

// expectShowLock queues the FOR UPDATE select on the show row.
func expectShowLock(mock sqlmock.Sqlmock, showID uint64) {
	mock.ExpectQuery(`FROM shows WHERE id = \? FOR UPDATE`).
		WithArgs(showID).
		WillReturnRows(sqlmock.NewRows(showColumns()).
			AddRow(showID, 7, 3, storeNow.Add(2*time.Hour), storeNow.Add(4*time.Hour), 1500, model.ShowScheduled, storeNow, storeNow))
}

// TestPlaceBookingAgainstMySQL drives a full allocation through the
// store and asserts the exact statement sequence: lock the show,
// validate the selection, conditionally hold the seats, price them and
// persist the booking, all inside one committed transaction.
func TestPlaceBookingAgainstMySQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewBookingStore(db)
	alloc := allocator.New(store, clock.NewFixed(storeNow), allocator.WithHoldTTL(10*time.Minute))

	mock.ExpectBegin()
	expectShowLock(mock, 1)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM show_seats WHERE show_id = \? AND seat_id IN \(\?,\?\)`).
		WithArgs(1, 101, 102).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`UPDATE show_seats SET status = \?, updated_at = CURRENT_TIMESTAMP WHERE show_id = \? AND status = \? AND seat_id IN \(\?,\?\)`).
		WithArgs(model.SeatHeld, 1, model.SeatAvailable, 101, 102).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`SELECT seat_id, price_cents FROM show_seats`).
		WithArgs(1, 101, 102).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id", "price_cents"}).AddRow(101, 1500).AddRow(102, 2000))
	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(42, 1, model.BookingPending, 3500, storeNow.Add(10*time.Minute)).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(`INSERT INTO booking_seats`).
		WithArgs(9, 1, 101, 102).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`SELECT status, created_at, updated_at FROM bookings WHERE id = \?`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"status", "created_at", "updated_at"}).
			AddRow(model.BookingPending, storeNow, storeNow))
	mock.ExpectCommit()

	b, err := alloc.PlaceBooking(context.Background(), allocator.PlaceBookingInput{
		ShowID:  1,
		UserID:  42,
		SeatIDs: []uint64{101, 102},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), b.ID)
	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, uint32(3500), b.AmountCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPlaceBookingSeatTakenRollsBack verifies that a short update
// count aborts the transaction instead of committing a partial hold.
func TestPlaceBookingSeatTakenRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewBookingStore(db)
	alloc := allocator.New(store, clock.NewFixed(storeNow))

	mock.ExpectBegin()
	expectShowLock(mock, 1)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM show_seats`).
		WithArgs(1, 101, 102).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	// Only one of the two seats is still AVAILABLE.
	mock.ExpectExec(`UPDATE show_seats SET status = \?`).
		WithArgs(model.SeatHeld, 1, model.SeatAvailable, 101, 102).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	_, err = alloc.PlaceBooking(context.Background(), allocator.PlaceBookingInput{
		ShowID:  1,
		UserID:  42,
		SeatIDs: []uint64{101, 102},
	})
	assert.ErrorIs(t, err, allocator.ErrSeatUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetShowForUpdateMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewBookingStore(db)

	mock.ExpectQuery(`FROM shows WHERE id = \? FOR UPDATE`).
		WithArgs(77).
		WillReturnRows(sqlmock.NewRows(showColumns()))

	_, err = store.GetShowForUpdate(context.Background(), 77)
	assert.ErrorIs(t, err, allocator.ErrShowNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatusConditional(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewBookingStore(db)

	mock.ExpectExec(`UPDATE bookings SET status = \?, updated_at = CURRENT_TIMESTAMP WHERE id = \? AND status = \?`).
		WithArgs(model.BookingPaid, 9, model.BookingPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := store.UpdateBookingStatus(context.Background(), 9, model.BookingPending, model.BookingPaid)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListExpiredPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewBookingStore(db)

	mock.ExpectQuery(`SELECT id FROM bookings WHERE status = 'PENDING' AND hold_expires_at <= \?`).
		WithArgs(storeNow, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4).AddRow(8))

	ids, err := store.ListExpiredPending(context.Background(), storeNow, 100)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 8}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
