// Admin show scheduling.  Creating a show materializes one inventory
// row per physical seat in the same transaction, so a show is either
// fully bookable or absent.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/repository"
)

type showReq struct {
	MovieID        uint64 `json:"movie_id"`
	ScreenID       uint64 `json:"screen_id"`
	StartsAt       string `json:"starts_at"` // RFC3339
	EndsAt         string `json:"ends_at"`   // RFC3339; defaults to starts_at + movie runtime
	BasePriceCents uint32 `json:"base_price_cents"`
}

type showResp struct {
	ID             uint64 `json:"id"`
	MovieID        uint64 `json:"movie_id"`
	ScreenID       uint64 `json:"screen_id"`
	StartsAt       string `json:"starts_at"`
	EndsAt         string `json:"ends_at"`
	BasePriceCents uint32 `json:"base_price_cents"`
	Status         string `json:"status"`
	Seats          int    `json:"seats"`
}

// vipPriceCents derives the VIP seat price from the base price.  VIP
// seats carry a 50% premium; other seat classes use the base price.
func vipPriceCents(base uint32) uint32 {
	return base + base/2
}

// CreateShow handles POST /v1/admin/shows.  The show row, the overlap
// check against other shows on the screen and the seat inventory all
// commit atomically.
func (h *AdminHandler) CreateShow(c echo.Context) error {
	var req showReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.MovieID == 0 || req.ScreenID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and screen_id required"})
	}
	if req.BasePriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_price_cents required"})
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	startsAt = startsAt.UTC()
	if !startsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be in the future"})
	}

	ctx := c.Request().Context()
	movie, err := h.MovieRepo.GetByID(ctx, req.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}
	if _, err := h.ScreenRepo.GetByID(ctx, req.ScreenID); err != nil {
		if errors.Is(err, repository.ErrScreenNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load screen failed"})
	}

	var endsAt time.Time
	if req.EndsAt != "" {
		endsAt, err = time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC3339"})
		}
		endsAt = endsAt.UTC()
	} else {
		endsAt = startsAt.Add(time.Duration(movie.DurationMin) * time.Minute)
	}
	if !endsAt.After(startsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}

	seats, err := h.SeatRepo.ListByScreen(ctx, req.ScreenID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load layout failed"})
	}
	if len(seats) == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "screen has no seat layout"})
	}

	show := model.Show{
		MovieID:        req.MovieID,
		ScreenID:       req.ScreenID,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		BasePriceCents: req.BasePriceCents,
	}

	tx, err := h.ShowRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	overlaps, err := h.ShowRepo.CountOverlappingTx(ctx, tx, req.ScreenID, startsAt, endsAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "overlap check failed"})
	}
	if overlaps > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "screen already booked for this time"})
	}
	if err := h.ShowRepo.CreateTx(ctx, tx, &show); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
	}

	inventory := make([]model.ShowSeat, 0, len(seats))
	for _, seat := range seats {
		price := req.BasePriceCents
		if seat.SeatType == "VIP" {
			price = vipPriceCents(req.BasePriceCents)
		}
		inventory = append(inventory, model.ShowSeat{
			ShowID:     show.ID,
			SeatID:     seat.ID,
			Status:     model.SeatAvailable,
			PriceCents: price,
		})
	}
	if err := h.ShowSeatRepo.CreateBulkTx(ctx, tx, inventory); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seat inventory failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, showResp{
		ID:             show.ID,
		MovieID:        show.MovieID,
		ScreenID:       show.ScreenID,
		StartsAt:       show.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:         show.EndsAt.UTC().Format(time.RFC3339),
		BasePriceCents: show.BasePriceCents,
		Status:         show.Status,
		Seats:          len(inventory),
	})
}

// CancelShow handles POST /v1/admin/shows/:id/cancel.  Shows with
// paid bookings cannot be cancelled; pending holds simply expire.
func (h *AdminHandler) CancelShow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	if err := h.ShowRepo.Cancel(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "show has paid bookings or is not scheduled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel show failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteShow handles DELETE /v1/admin/shows/:id.  Only shows without
// any bookings can be deleted outright.
func (h *AdminHandler) DeleteShow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	if err := h.ShowRepo.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "show has bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete show failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ListShowsByScreen handles GET /v1/admin/screens/:id/shows.
func (h *AdminHandler) ListShowsByScreen(c echo.Context) error {
	screenID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
	}
	shows, err := h.ShowRepo.ListByScreen(c.Request().Context(), screenID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list shows failed"})
	}
	out := make([]showResp, 0, len(shows))
	for _, s := range shows {
		out = append(out, showResp{
			ID:             s.ID,
			MovieID:        s.MovieID,
			ScreenID:       s.ScreenID,
			StartsAt:       s.StartsAt.UTC().Format(time.RFC3339),
			EndsAt:         s.EndsAt.UTC().Format(time.RFC3339),
			BasePriceCents: s.BasePriceCents,
			Status:         s.Status,
		})
	}
	return c.JSON(http.StatusOK, out)
}
