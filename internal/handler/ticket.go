// Ticket download.  A paid booking can be rendered as a PDF ticket
// the customer presents at the cinema.
package handler

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/phpdave11/gofpdf"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/repository"
)

// TicketHandler renders PDF tickets for paid bookings.
type TicketHandler struct {
	Store *repository.BookingStore
}

func NewTicketHandler(store *repository.BookingStore) *TicketHandler {
	if store == nil {
		panic("nil store passed to NewTicketHandler")
	}
	return &TicketHandler{Store: store}
}

// DownloadTicket handles GET /v1/bookings/:id/ticket.  Only PAID
// bookings have a ticket; pending and cancelled ones return 409.
func (h *TicketHandler) DownloadTicket(c echo.Context) error {
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
	if det.Status != model.BookingPaid {
		return c.JSON(http.StatusConflict, echo.Map{"error": "ticket available only for paid bookings"})
	}

	pdf, err := renderTicket(det)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render ticket failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="ticket-%d.pdf"`, det.ID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// renderTicket lays out a single-page A4 ticket.
func renderTicket(det *repository.BookingDetail) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "BookMyShowtime", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Booking #%d", det.ID), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	startsAt := det.StartsAt
	if t, err := time.Parse(time.RFC3339, det.StartsAt); err == nil {
		startsAt = t.Format("Mon, 02 Jan 2006 15:04 MST")
	}

	line("Movie", det.MovieTitle)
	line("Cinema", fmt.Sprintf("%s, %s", det.CinemaName, det.City))
	line("Screen", det.ScreenName)
	line("Showtime", startsAt)

	seatList := ""
	for i, seat := range det.Seats {
		if i > 0 {
			seatList += ", "
		}
		seatList += fmt.Sprintf("%s%d", seat.RowLabel, seat.SeatNumber)
	}
	line("Seats", seatList)
	line("Amount", fmt.Sprintf("%.2f", float64(det.AmountCents)/100))
	if det.PaymentRef != nil {
		line("Payment ref", *det.PaymentRef)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Present this ticket at the entrance. Valid only for the show above.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
