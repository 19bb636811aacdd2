// Customer booking endpoints: placing a hold, listing and inspecting
// bookings and releasing a hold before payment.
package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/allocator"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/repository"
)

// BookingHandler drives the seat allocator and reads booking detail
// through the BookingStore.
type BookingHandler struct {
	Alloc *allocator.Allocator
	Store *repository.BookingStore
}

func NewBookingHandler(alloc *allocator.Allocator, store *repository.BookingStore) *BookingHandler {
	if alloc == nil || store == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Alloc: alloc, Store: store}
}

type placeBookingReq struct {
	SeatIDs []uint64 `json:"seat_ids"`
}

type placeBookingResp struct {
	ID            uint64   `json:"id"`
	ShowID        uint64   `json:"show_id"`
	Status        string   `json:"status"`
	AmountCents   uint32   `json:"amount_cents"`
	SeatIDs       []uint64 `json:"seat_ids"`
	HoldExpiresAt string   `json:"hold_expires_at"`
}

// PlaceBooking handles POST /v1/shows/:id/bookings.  The seats are
// held atomically; a 409 means at least one requested seat was taken
// between viewing the seat map and submitting.
func (h *BookingHandler) PlaceBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req placeBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	b, err := h.Alloc.PlaceBooking(c.Request().Context(), allocator.PlaceBookingInput{
		ShowID:  showID,
		UserID:  userID,
		SeatIDs: req.SeatIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, allocator.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, allocator.ErrShowAlreadyStarted):
			return c.JSON(http.StatusConflict, echo.Map{"error": "show already started"})
		case errors.Is(err, allocator.ErrInvalidSeatSelection):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid seat selection"})
		case errors.Is(err, allocator.ErrSeatUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "one or more seats are no longer available"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}

	return c.JSON(http.StatusCreated, placeBookingResp{
		ID:            b.ID,
		ShowID:        b.ShowID,
		Status:        b.Status,
		AmountCents:   b.AmountCents,
		SeatIDs:       req.SeatIDs,
		HoldExpiresAt: b.HoldExpiresAt.UTC().Format(time.RFC3339),
	})
}

// ListMyBookings handles GET /v1/bookings.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Store.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	return c.JSON(http.StatusOK, details)
}

// GetMyBooking handles GET /v1/bookings/:id.  Bookings of other users
// return 403 rather than 404 so a legitimate owner is never told their
// booking does not exist.
func (h *BookingHandler) GetMyBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	det, err := h.Store.GetByIDForUser(c.Request().Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
		}
	}
	return c.JSON(http.StatusOK, det)
}

// ReleaseBooking handles DELETE /v1/bookings/:id.  Only the owner may
// release a hold.  Releasing an already cancelled booking succeeds,
// and a paid booking is left untouched; both cases return 204 because
// the outcome the caller asked for already holds.
func (h *BookingHandler) ReleaseBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	owner, err := h.Store.OwnerForBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if owner != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	}

	if err := h.Alloc.ReleaseHold(ctx, bookingID); err != nil {
		if errors.Is(err, allocator.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
