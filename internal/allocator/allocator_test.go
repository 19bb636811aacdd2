package allocator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/clock"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

// fakeStore is an in-memory Store.  WithTx holds a mutex for the whole
// closure and restores a snapshot on error, which models the row-lock
// serialization and rollback the MySQL store provides.
type fakeStore struct {
	mu       sync.Mutex
	shows    map[uint64]model.Show
	seats    map[uint64]map[uint64]*model.ShowSeat
	bookings map[uint64]*model.Booking
	bseats   map[uint64][]uint64
	nextID   uint64
}

func newFakeStore(shows []model.Show, seats []model.ShowSeat) *fakeStore {
	s := &fakeStore{
		shows:    make(map[uint64]model.Show),
		seats:    make(map[uint64]map[uint64]*model.ShowSeat),
		bookings: make(map[uint64]*model.Booking),
		bseats:   make(map[uint64][]uint64),
	}
	for _, sh := range shows {
		s.shows[sh.ID] = sh
	}
	for i := range seats {
		ss := seats[i]
		if s.seats[ss.ShowID] == nil {
			s.seats[ss.ShowID] = make(map[uint64]*model.ShowSeat)
		}
		s.seats[ss.ShowID][ss.SeatID] = &ss
	}
	return s
}

func (s *fakeStore) snapshot() (map[uint64]map[uint64]*model.ShowSeat, map[uint64]*model.Booking, map[uint64][]uint64, uint64) {
	seats := make(map[uint64]map[uint64]*model.ShowSeat, len(s.seats))
	for showID, m := range s.seats {
		cp := make(map[uint64]*model.ShowSeat, len(m))
		for id, ss := range m {
			c := *ss
			cp[id] = &c
		}
		seats[showID] = cp
	}
	bookings := make(map[uint64]*model.Booking, len(s.bookings))
	for id, b := range s.bookings {
		c := *b
		bookings[id] = &c
	}
	bseats := make(map[uint64][]uint64, len(s.bseats))
	for id, ids := range s.bseats {
		bseats[id] = append([]uint64(nil), ids...)
	}
	return seats, bookings, bseats, s.nextID
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seats, bookings, bseats, next := s.snapshot()
	if err := fn(ctx); err != nil {
		s.seats, s.bookings, s.bseats, s.nextID = seats, bookings, bseats, next
		return err
	}
	return nil
}

func (s *fakeStore) GetShowForUpdate(ctx context.Context, showID uint64) (model.Show, error) {
	sh, ok := s.shows[showID]
	if !ok {
		return model.Show{}, ErrShowNotFound
	}
	return sh, nil
}

func (s *fakeStore) CountShowSeats(ctx context.Context, showID uint64, seatIDs []uint64) (int, error) {
	n := 0
	for _, id := range seatIDs {
		if _, ok := s.seats[showID][id]; ok {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) SeatPrices(ctx context.Context, showID uint64, seatIDs []uint64) (map[uint64]uint32, error) {
	prices := make(map[uint64]uint32, len(seatIDs))
	for _, id := range seatIDs {
		if ss, ok := s.seats[showID][id]; ok {
			prices[id] = ss.PriceCents
		}
	}
	return prices, nil
}

func (s *fakeStore) TransitionSeats(ctx context.Context, showID uint64, seatIDs []uint64, from, to string) (int64, error) {
	var n int64
	for _, id := range seatIDs {
		if ss, ok := s.seats[showID][id]; ok && ss.Status == from {
			ss.Status = to
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) CreateBooking(ctx context.Context, b *model.Booking, seatIDs []uint64) error {
	s.nextID++
	b.ID = s.nextID
	cp := *b
	s.bookings[b.ID] = &cp
	s.bseats[b.ID] = append([]uint64(nil), seatIDs...)
	return nil
}

func (s *fakeStore) GetBookingForUpdate(ctx context.Context, bookingID uint64) (model.Booking, []uint64, error) {
	b, ok := s.bookings[bookingID]
	if !ok {
		return model.Booking{}, nil, ErrBookingNotFound
	}
	return *b, append([]uint64(nil), s.bseats[bookingID]...), nil
}

func (s *fakeStore) UpdateBookingStatus(ctx context.Context, bookingID uint64, from, to string) (bool, error) {
	b, ok := s.bookings[bookingID]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (s *fakeStore) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uint64
	for id, b := range s.bookings {
		if b.Status == model.BookingPending && !b.HoldExpiresAt.After(now) {
			ids = append(ids, id)
			if len(ids) == limit {
				break
			}
		}
	}
	return ids, nil
}

func (s *fakeStore) seatStatus(showID, seatID uint64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats[showID][seatID].Status
}

func (s *fakeStore) bookingStatus(id uint64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id].Status
}

// recordingNotifier counts lifecycle events.
type recordingNotifier struct {
	mu        sync.Mutex
	paid      int
	cancelled int
}

func (n *recordingNotifier) BookingPaid(ctx context.Context, b model.Booking, seatIDs []uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paid++
}

func (n *recordingNotifier) BookingCancelled(ctx context.Context, b model.Booking, seatIDs []uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled++
}

var testNow = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

// threeSeatShow builds show 1 with seats 101, 102, 103 all AVAILABLE.
func threeSeatShow() *fakeStore {
	return newFakeStore(
		[]model.Show{{ID: 1, MovieID: 7, ScreenID: 3, StartsAt: testNow.Add(2 * time.Hour), Status: model.ShowScheduled}},
		[]model.ShowSeat{
			{ShowID: 1, SeatID: 101, Status: model.SeatAvailable, PriceCents: 1500},
			{ShowID: 1, SeatID: 102, Status: model.SeatAvailable, PriceCents: 1500},
			{ShowID: 1, SeatID: 103, Status: model.SeatAvailable, PriceCents: 2000},
		},
	)
}

func TestPlaceBooking(t *testing.T) {
	t.Parallel()

	t.Run("holds seats and creates pending booking", func(t *testing.T) {
		store := threeSeatShow()
		alloc := New(store, clock.NewFixed(testNow), WithHoldTTL(10*time.Minute))

		b, err := alloc.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 1, UserID: 42, SeatIDs: []uint64{101, 102}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if b.ID == 0 {
			t.Fatalf("expected booking ID to be assigned")
		}
		if b.Status != model.BookingPending {
			t.Fatalf("expected status %s, got %s", model.BookingPending, b.Status)
		}
		if b.AmountCents != 3000 {
			t.Fatalf("expected amount 3000, got %d", b.AmountCents)
		}
		if got := b.HoldExpiresAt; !got.Equal(testNow.Add(10 * time.Minute)) {
			t.Fatalf("expected hold deadline %v, got %v", testNow.Add(10*time.Minute), got)
		}
		if st := store.seatStatus(1, 101); st != model.SeatHeld {
			t.Fatalf("expected seat 101 HELD, got %s", st)
		}
		if st := store.seatStatus(1, 103); st != model.SeatAvailable {
			t.Fatalf("expected seat 103 untouched, got %s", st)
		}
	})

	t.Run("overlapping request is rejected without partial holds", func(t *testing.T) {
		store := threeSeatShow()
		alloc := New(store, clock.NewFixed(testNow))

		if _, err := alloc.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 1, UserID: 1, SeatIDs: []uint64{101, 102}}); err != nil {
			t.Fatalf("first booking failed: %v", err)
		}
		_, err := alloc.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 1, UserID: 2, SeatIDs: []uint64{102, 103}})
		if err != ErrSeatUnavailable {
			t.Fatalf("expected ErrSeatUnavailable, got %v", err)
		}
		// 103 was part of the failed request; the rollback must leave it AVAILABLE.
		if st := store.seatStatus(1, 103); st != model.SeatAvailable {
			t.Fatalf("expected seat 103 AVAILABLE after rollback, got %s", st)
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		store := threeSeatShow()
		alloc := New(store, clock.NewFixed(testNow))
		ctx := context.Background()

		cases := []struct {
			name string
			in   PlaceBookingInput
			want error
		}{
			{"empty selection", PlaceBookingInput{ShowID: 1, UserID: 1}, ErrInvalidSeatSelection},
			{"duplicate seats", PlaceBookingInput{ShowID: 1, UserID: 1, SeatIDs: []uint64{101, 101}}, ErrInvalidSeatSelection},
			{"seat not in layout", PlaceBookingInput{ShowID: 1, UserID: 1, SeatIDs: []uint64{999}}, ErrInvalidSeatSelection},
			{"unknown show", PlaceBookingInput{ShowID: 77, UserID: 1, SeatIDs: []uint64{101}}, ErrShowNotFound},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := alloc.PlaceBooking(ctx, tc.in); err != tc.want {
					t.Fatalf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})

	t.Run("show already started", func(t *testing.T) {
		store := newFakeStore(
			[]model.Show{{ID: 2, StartsAt: testNow.Add(-time.Minute), Status: model.ShowScheduled}},
			[]model.ShowSeat{{ShowID: 2, SeatID: 201, Status: model.SeatAvailable}},
		)
		alloc := New(store, clock.NewFixed(testNow))
		if _, err := alloc.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 2, UserID: 1, SeatIDs: []uint64{201}}); err != ErrShowAlreadyStarted {
			t.Fatalf("expected ErrShowAlreadyStarted, got %v", err)
		}
	})

	t.Run("cancelled show looks like a missing one", func(t *testing.T) {
		store := newFakeStore(
			[]model.Show{{ID: 3, StartsAt: testNow.Add(time.Hour), Status: model.ShowCancelled}},
			[]model.ShowSeat{{ShowID: 3, SeatID: 301, Status: model.SeatAvailable}},
		)
		alloc := New(store, clock.NewFixed(testNow))
		if _, err := alloc.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 3, UserID: 1, SeatIDs: []uint64{301}}); err != ErrShowNotFound {
			t.Fatalf("expected ErrShowNotFound, got %v", err)
		}
	})
}

// TestPlaceBookingConcurrent fires many overlapping requests at one
// show and verifies that every seat ends up claimed by at most one
// booking.
func TestPlaceBookingConcurrent(t *testing.T) {
	t.Parallel()

	const workers = 32
	store := threeSeatShow()
	alloc := New(store, clock.NewFixed(testNow))

	selections := [][]uint64{
		{101, 102},
		{102, 103},
		{101, 103},
		{101, 102, 103},
	}

	results := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = alloc.PlaceBooking(context.Background(), PlaceBookingInput{
				ShowID:  1,
				UserID:  uint64(i + 1),
				SeatIDs: selections[i%len(selections)],
			})
		}(i)
	}
	wg.Wait()

	claimed := make(map[uint64]int)
	store.mu.Lock()
	for bid, b := range store.bookings {
		if b.Status == model.BookingPending {
			for _, sid := range store.bseats[bid] {
				claimed[sid]++
			}
		}
	}
	store.mu.Unlock()
	for sid, n := range claimed {
		if n > 1 {
			t.Fatalf("seat %d claimed by %d bookings", sid, n)
		}
	}

	succeeded := 0
	for _, err := range results {
		switch err {
		case nil:
			succeeded++
		case ErrSeatUnavailable:
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded == 0 {
		t.Fatalf("expected at least one booking to succeed")
	}
}

func TestConfirmBooking(t *testing.T) {
	t.Parallel()

	t.Run("pending booking becomes paid", func(t *testing.T) {
		store := threeSeatShow()
		notifier := &recordingNotifier{}
		alloc := New(store, clock.NewFixed(testNow), WithNotifier(notifier))

		b, err := alloc.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 1, UserID: 5, SeatIDs: []uint64{101}})
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		confirmed, err := alloc.ConfirmBooking(context.Background(), b.ID)
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if confirmed.Status != model.BookingPaid {
			t.Fatalf("expected PAID, got %s", confirmed.Status)
		}
		if st := store.seatStatus(1, 101); st != model.SeatBooked {
			t.Fatalf("expected seat 101 BOOKED, got %s", st)
		}
		if notifier.paid != 1 {
			t.Fatalf("expected 1 paid notification, got %d", notifier.paid)
		}
	})

	t.Run("confirm after expiry releases and reports expired", func(t *testing.T) {
		store := threeSeatShow()
		alloc := New(store, clock.NewFixed(testNow), WithHoldTTL(10*time.Minute))

		b, err := alloc.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 1, UserID: 5, SeatIDs: []uint64{101, 102}})
		if err != nil {
			t.Fatalf("place: %v", err)
		}

		late := New(store, clock.NewFixed(testNow.Add(11*time.Minute)))
		if _, err := late.ConfirmBooking(context.Background(), b.ID); err != ErrBookingExpired {
			t.Fatalf("expected ErrBookingExpired, got %v", err)
		}
		if st := store.bookingStatus(b.ID); st != model.BookingCancelled {
			t.Fatalf("expected CANCELLED, got %s", st)
		}
		// Seats must be claimable again.
		if _, err := late.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 1, UserID: 6, SeatIDs: []uint64{101, 102}}); err != nil {
			t.Fatalf("rebooking released seats failed: %v", err)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		store := threeSeatShow()
		alloc := New(store, clock.NewFixed(testNow))
		if _, err := alloc.ConfirmBooking(context.Background(), 404); err != ErrBookingNotFound {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})
}

func TestReleaseHold(t *testing.T) {
	t.Parallel()

	t.Run("is idempotent", func(t *testing.T) {
		store := threeSeatShow()
		notifier := &recordingNotifier{}
		alloc := New(store, clock.NewFixed(testNow), WithNotifier(notifier))

		b, err := alloc.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 1, UserID: 8, SeatIDs: []uint64{103}})
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		if err := alloc.ReleaseHold(context.Background(), b.ID); err != nil {
			t.Fatalf("first release: %v", err)
		}
		if err := alloc.ReleaseHold(context.Background(), b.ID); err != nil {
			t.Fatalf("second release: %v", err)
		}
		if st := store.seatStatus(1, 103); st != model.SeatAvailable {
			t.Fatalf("expected seat 103 AVAILABLE, got %s", st)
		}
		if notifier.cancelled != 1 {
			t.Fatalf("expected exactly 1 cancelled notification, got %d", notifier.cancelled)
		}
	})

	t.Run("never touches a paid booking", func(t *testing.T) {
		store := threeSeatShow()
		alloc := New(store, clock.NewFixed(testNow))

		b, err := alloc.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 1, UserID: 8, SeatIDs: []uint64{101}})
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		if _, err := alloc.ConfirmBooking(context.Background(), b.ID); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if err := alloc.ReleaseHold(context.Background(), b.ID); err != nil {
			t.Fatalf("release after confirm: %v", err)
		}
		if st := store.bookingStatus(b.ID); st != model.BookingPaid {
			t.Fatalf("expected booking to stay PAID, got %s", st)
		}
		if st := store.seatStatus(1, 101); st != model.SeatBooked {
			t.Fatalf("expected seat 101 to stay BOOKED, got %s", st)
		}
	})
}

func TestReleaseExpired(t *testing.T) {
	t.Parallel()

	store := threeSeatShow()
	alloc := New(store, clock.NewFixed(testNow), WithHoldTTL(10*time.Minute))

	b1, err := alloc.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 1, UserID: 1, SeatIDs: []uint64{101}})
	if err != nil {
		t.Fatalf("place b1: %v", err)
	}
	b2, err := alloc.PlaceBooking(context.Background(), PlaceBookingInput{ShowID: 1, UserID: 2, SeatIDs: []uint64{102}})
	if err != nil {
		t.Fatalf("place b2: %v", err)
	}
	if _, err := alloc.ConfirmBooking(context.Background(), b2.ID); err != nil {
		t.Fatalf("confirm b2: %v", err)
	}

	sweep := New(store, clock.NewFixed(testNow.Add(11*time.Minute)))
	released, err := sweep.ReleaseExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if released != 1 {
		t.Fatalf("expected 1 released booking, got %d", released)
	}
	if st := store.bookingStatus(b1.ID); st != model.BookingCancelled {
		t.Fatalf("expected b1 CANCELLED, got %s", st)
	}
	if st := store.bookingStatus(b2.ID); st != model.BookingPaid {
		t.Fatalf("expected b2 untouched, got %s", st)
	}
	if st := store.seatStatus(1, 101); st != model.SeatAvailable {
		t.Fatalf("expected seat 101 AVAILABLE, got %s", st)
	}
}

// TestBookingScenario walks the end-to-end sequence: hold A1/A2,
// overlapping request fails, confirm, then A2 stays unavailable while
// A3 can still be booked.
func TestBookingScenario(t *testing.T) {
	t.Parallel()

	store := threeSeatShow()
	alloc := New(store, clock.NewFixed(testNow))
	ctx := context.Background()

	b1, err := alloc.PlaceBooking(ctx, PlaceBookingInput{ShowID: 1, UserID: 1, SeatIDs: []uint64{101, 102}})
	if err != nil {
		t.Fatalf("U1 booking: %v", err)
	}
	if _, err := alloc.PlaceBooking(ctx, PlaceBookingInput{ShowID: 1, UserID: 2, SeatIDs: []uint64{102, 103}}); err != ErrSeatUnavailable {
		t.Fatalf("U2 overlap: expected ErrSeatUnavailable, got %v", err)
	}
	if _, err := alloc.ConfirmBooking(ctx, b1.ID); err != nil {
		t.Fatalf("confirm B1: %v", err)
	}
	if _, err := alloc.PlaceBooking(ctx, PlaceBookingInput{ShowID: 1, UserID: 2, SeatIDs: []uint64{102}}); err != ErrSeatUnavailable {
		t.Fatalf("A2 after confirm: expected ErrSeatUnavailable, got %v", err)
	}
	if _, err := alloc.PlaceBooking(ctx, PlaceBookingInput{ShowID: 1, UserID: 2, SeatIDs: []uint64{103}}); err != nil {
		t.Fatalf("A3 booking: %v", err)
	}
}
