// Payment webhook.  A payment provider confirms or fails a pending
// booking; the shared secret in the X-Webhook-Secret header
// authenticates the caller.
package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/allocator"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/repository"
)

// PaymentHandler finalizes or cancels bookings based on provider
// callbacks.
type PaymentHandler struct {
	Alloc  *allocator.Allocator
	Store  *repository.BookingStore
	Secret string
}

func NewPaymentHandler(alloc *allocator.Allocator, store *repository.BookingStore, secret string) *PaymentHandler {
	if alloc == nil || store == nil || secret == "" {
		panic("invalid dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Alloc: alloc, Store: store, Secret: secret}
}

type webhookReq struct {
	BookingID  uint64 `json:"booking_id"`
	Status     string `json:"status"` // "paid" or "failed"
	PaymentRef string `json:"payment_ref"`
}

type webhookResp struct {
	BookingID uint64 `json:"booking_id"`
	Status    string `json:"status"`
	PaidAt    string `json:"paid_at,omitempty"`
}

// HandleWebhook handles POST /v1/payments/webhook.  "paid" confirms
// the booking (seats HELD to BOOKED); "failed" releases the hold.
// Confirming after the hold window elapsed returns 410 so the provider
// knows to refund.
func (h *PaymentHandler) HandleWebhook(c echo.Context) error {
	got := c.Request().Header.Get("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.Secret)) != 1 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid webhook secret"})
	}

	var req webhookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id required"})
	}

	ctx := c.Request().Context()
	switch strings.ToLower(req.Status) {
	case "paid":
		if ref := strings.TrimSpace(req.PaymentRef); ref != "" {
			if err := h.Store.SetPaymentRef(ctx, req.BookingID, ref); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record payment ref failed"})
			}
		}
		b, err := h.Alloc.ConfirmBooking(ctx, req.BookingID)
		if err != nil {
			switch {
			case errors.Is(err, allocator.ErrBookingNotFound):
				return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
			case errors.Is(err, allocator.ErrBookingExpired):
				return c.JSON(http.StatusGone, echo.Map{"error": "hold expired before payment"})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm failed"})
			}
		}
		return c.JSON(http.StatusOK, webhookResp{
			BookingID: b.ID,
			Status:    b.Status,
			PaidAt:    time.Now().UTC().Format(time.RFC3339),
		})
	case "failed":
		if err := h.Alloc.ReleaseHold(ctx, req.BookingID); err != nil {
			if errors.Is(err, allocator.ErrBookingNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release failed"})
		}
		return c.JSON(http.StatusOK, webhookResp{BookingID: req.BookingID, Status: "CANCELLED"})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be paid or failed"})
	}
}
