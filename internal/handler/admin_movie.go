// Package handler exposes HTTP handlers.  This file covers the admin
// movie catalog: create, update, delete and the admin-facing list.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/repository"
)

// AdminHandler bundles the repositories admins use to manage the
// catalog: movies, cinemas, screens and shows.
type AdminHandler struct {
	MovieRepo    *repository.MovieRepo
	CinemaRepo   *repository.CinemaRepo
	ScreenRepo   *repository.ScreenRepo
	SeatRepo     *repository.SeatRepo
	ShowRepo     *repository.ShowRepo
	ShowSeatRepo *repository.ShowSeatRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any
// dependency is nil; a missing repository is a wiring bug.
func NewAdminHandler(movies *repository.MovieRepo, cinemas *repository.CinemaRepo, screens *repository.ScreenRepo, seats *repository.SeatRepo, shows *repository.ShowRepo, showSeats *repository.ShowSeatRepo) *AdminHandler {
	if movies == nil || cinemas == nil || screens == nil || seats == nil || shows == nil || showSeats == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		MovieRepo:    movies,
		CinemaRepo:   cinemas,
		ScreenRepo:   screens,
		SeatRepo:     seats,
		ShowRepo:     shows,
		ShowSeatRepo: showSeats,
	}
}

type movieReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	DurationMin uint32 `json:"duration_min"`
	Rating      string `json:"rating"`
}

type movieResp struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	DurationMin uint32 `json:"duration_min"`
	Rating      string `json:"rating"`
}

func toMovieResp(m *model.Movie) movieResp {
	return movieResp{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Genre:       m.Genre,
		DurationMin: m.DurationMin,
		Rating:      m.Rating,
	}
}

// CreateMovie handles POST /v1/admin/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min required"})
	}

	m := model.Movie{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Genre:       strings.TrimSpace(req.Genre),
		DurationMin: req.DurationMin,
		Rating:      strings.TrimSpace(req.Rating),
	}
	if err := h.MovieRepo.Create(c.Request().Context(), &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, toMovieResp(&m))
}

// UpdateMovie handles PUT /v1/admin/movies/:id.
func (h *AdminHandler) UpdateMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and duration_min required"})
	}

	m := model.Movie{
		ID:          id,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Genre:       strings.TrimSpace(req.Genre),
		DurationMin: req.DurationMin,
		Rating:      strings.TrimSpace(req.Rating),
	}
	if err := h.MovieRepo.Update(c.Request().Context(), &m); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	return c.JSON(http.StatusOK, toMovieResp(&m))
}

// DeleteMovie handles DELETE /v1/admin/movies/:id.  Movies with
// scheduled shows cannot be deleted.
func (h *AdminHandler) DeleteMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	if err := h.MovieRepo.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie has scheduled shows"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
