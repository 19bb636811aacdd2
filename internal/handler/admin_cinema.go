// Admin venue management: cinemas, their screens and seat layouts.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/repository"
)

type cinemaReq struct {
	Name string `json:"name"`
	City string `json:"city"`
}

type cinemaResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// CreateCinema handles POST /v1/admin/cinemas.
func (h *AdminHandler) CreateCinema(c echo.Context) error {
	var req cinemaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city required"})
	}

	cin := model.Cinema{Name: req.Name, City: req.City}
	if err := h.CinemaRepo.Create(c.Request().Context(), &cin); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create cinema failed"})
	}
	return c.JSON(http.StatusCreated, cinemaResp{ID: cin.ID, Name: cin.Name, City: cin.City})
}

// UpdateCinema handles PUT /v1/admin/cinemas/:id.
func (h *AdminHandler) UpdateCinema(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	var req cinemaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city required"})
	}

	cin := model.Cinema{ID: id, Name: req.Name, City: req.City}
	if err := h.CinemaRepo.Update(c.Request().Context(), &cin); err != nil {
		if errors.Is(err, repository.ErrCinemaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cinema failed"})
	}
	return c.JSON(http.StatusOK, cinemaResp{ID: cin.ID, Name: cin.Name, City: cin.City})
}

// DeleteCinema handles DELETE /v1/admin/cinemas/:id.  Cinemas that
// still have screens cannot be deleted.
func (h *AdminHandler) DeleteCinema(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	if err := h.CinemaRepo.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCinemaNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "cinema still has screens"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete cinema failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

type screenReq struct {
	Name string `json:"name"`
	// Optional rectangular layout generated at creation time.  Rows
	// become labels A, B, C...; seats are numbered from 1 per row.
	SeatRows uint32 `json:"seat_rows"`
	SeatCols uint32 `json:"seat_cols"`
	// VIPRows marks the last n rows as VIP instead of STANDARD.
	VIPRows uint32 `json:"vip_rows"`
}

type screenResp struct {
	ID       uint64 `json:"id"`
	CinemaID uint64 `json:"cinema_id"`
	Name     string `json:"name"`
	Seats    int    `json:"seats"`
}

// CreateScreen handles POST /v1/admin/cinemas/:id/screens.  When
// seat_rows and seat_cols are given, the full layout is generated in
// the same request so the screen is immediately schedulable.
func (h *AdminHandler) CreateScreen(c echo.Context) error {
	cinemaID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	var req screenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.SeatRows > 100 || req.SeatCols > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "layout too large"})
	}

	ctx := c.Request().Context()
	if _, err := h.CinemaRepo.GetByID(ctx, cinemaID); err != nil {
		if errors.Is(err, repository.ErrCinemaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cinema failed"})
	}

	scr := model.Screen{CinemaID: cinemaID, Name: req.Name}
	if err := h.ScreenRepo.Create(ctx, &scr); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create screen failed"})
	}

	seatCount := 0
	if req.SeatRows > 0 && req.SeatCols > 0 {
		seats := make([]model.Seat, 0, int(req.SeatRows)*int(req.SeatCols))
		for row := 0; row < int(req.SeatRows); row++ {
			seatType := "STANDARD"
			if req.VIPRows > 0 && row >= int(req.SeatRows-req.VIPRows) {
				seatType = "VIP"
			}
			for num := 1; num <= int(req.SeatCols); num++ {
				seats = append(seats, model.Seat{
					ScreenID:   scr.ID,
					RowLabel:   indexToRowLabel(row),
					SeatNumber: uint32(num),
					SeatType:   seatType,
				})
			}
		}
		if err := h.SeatRepo.CreateBulk(ctx, seats); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seats failed"})
		}
		seatCount = len(seats)
	}

	return c.JSON(http.StatusCreated, screenResp{ID: scr.ID, CinemaID: scr.CinemaID, Name: scr.Name, Seats: seatCount})
}

// ListScreens handles GET /v1/admin/cinemas/:id/screens.
func (h *AdminHandler) ListScreens(c echo.Context) error {
	cinemaID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	ctx := c.Request().Context()
	screens, err := h.ScreenRepo.ListByCinema(ctx, cinemaID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list screens failed"})
	}
	out := make([]screenResp, 0, len(screens))
	for _, s := range screens {
		n, err := h.SeatRepo.CountByScreen(ctx, s.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count seats failed"})
		}
		out = append(out, screenResp{ID: s.ID, CinemaID: s.CinemaID, Name: s.Name, Seats: n})
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteScreen handles DELETE /v1/admin/screens/:id.
func (h *AdminHandler) DeleteScreen(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screen id"})
	}
	if err := h.ScreenRepo.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrScreenNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "screen not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "screen has scheduled shows"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete screen failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
