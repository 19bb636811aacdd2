// Package handler exposes HTTP handlers for both authenticated and
// public endpoints.  This file defines the public browsing API: movie
// and cinema catalogs, show search and per-show seat availability.
// These routes require no authentication and sit behind the response
// cache and rate limit middleware.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.  It produces sanitized responses without admin fields.
type PublicHandler struct {
	MovieRepo    *repository.MovieRepo
	CinemaRepo   *repository.CinemaRepo
	ScreenRepo   *repository.ScreenRepo
	ShowRepo     *repository.ShowRepo
	ShowSeatRepo *repository.ShowSeatRepo
}

func NewPublicHandler(movies *repository.MovieRepo, cinemas *repository.CinemaRepo, screens *repository.ScreenRepo, shows *repository.ShowRepo, showSeats *repository.ShowSeatRepo) *PublicHandler {
	return &PublicHandler{MovieRepo: movies, CinemaRepo: cinemas, ScreenRepo: screens, ShowRepo: shows, ShowSeatRepo: showSeats}
}

// ListMovies handles GET /v1/movies.  The optional ?genre= query
// filters by genre.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	movies, err := h.MovieRepo.List(c.Request().Context(), c.QueryParam("genre"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
	}
	out := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieResp(m))
	}
	return c.JSON(http.StatusOK, out)
}

// GetMovie handles GET /v1/movies/:id.
func (h *PublicHandler) GetMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	m, err := h.MovieRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load movie failed"})
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}

// ListCinemas handles GET /v1/cinemas.  The optional ?city= query
// restricts the result to one city.
func (h *PublicHandler) ListCinemas(c echo.Context) error {
	cinemas, err := h.CinemaRepo.List(c.Request().Context(), c.QueryParam("city"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list cinemas failed"})
	}
	out := make([]cinemaResp, 0, len(cinemas))
	for _, cin := range cinemas {
		out = append(out, cinemaResp{ID: cin.ID, Name: cin.Name, City: cin.City})
	}
	return c.JSON(http.StatusOK, out)
}

// ListCinemaScreens handles GET /v1/cinemas/:id/screens so guests can
// see a venue's screens before picking a show.
func (h *PublicHandler) ListCinemaScreens(c echo.Context) error {
	cinemaID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
	}
	ctx := c.Request().Context()
	if _, err := h.CinemaRepo.GetByID(ctx, cinemaID); err != nil {
		if errors.Is(err, repository.ErrCinemaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cinema failed"})
	}
	screens, err := h.ScreenRepo.ListByCinema(ctx, cinemaID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list screens failed"})
	}
	type publicScreen struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}
	out := make([]publicScreen, 0, len(screens))
	for _, s := range screens {
		out = append(out, publicScreen{ID: s.ID, Name: s.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// SearchShows handles GET /v1/search/shows.  Supported query parameters:
// movie, cinema, city, date (YYYY-MM-DD), page, page_size.
func (h *PublicHandler) SearchShows(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	q := repository.ShowSearchQuery{
		MovieTitle: c.QueryParam("movie"),
		Cinema:     c.QueryParam("cinema"),
		City:       c.QueryParam("city"),
		Date:       c.QueryParam("date"),
		Page:       page,
		PageSize:   pageSize,
	}
	rows, total, err := h.ShowRepo.SearchUpcoming(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"shows":     rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// publicShowDetail is the show header returned with the seat map.
type publicShowDetail struct {
	ID             uint64 `json:"id"`
	MovieID        uint64 `json:"movie_id"`
	ScreenID       uint64 `json:"screen_id"`
	StartsAt       string `json:"starts_at"`
	EndsAt         string `json:"ends_at"`
	BasePriceCents uint32 `json:"base_price_cents"`
	Status         string `json:"status"`
}

// GetShow handles GET /v1/shows/:id.
func (h *PublicHandler) GetShow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	s, err := h.ShowRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load show failed"})
	}
	return c.JSON(http.StatusOK, publicShowDetail{
		ID:             s.ID,
		MovieID:        s.MovieID,
		ScreenID:       s.ScreenID,
		StartsAt:       s.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:         s.EndsAt.UTC().Format(time.RFC3339),
		BasePriceCents: s.BasePriceCents,
		Status:         s.Status,
	})
}

// GetShowSeats handles GET /v1/shows/:id/seats.  It returns the full
// seat map with per-seat status so clients can render availability.
// The map reflects committed state; a seat may still be lost between
// viewing and booking, which the booking endpoint reports as a 409.
func (h *PublicHandler) GetShowSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx := c.Request().Context()
	if _, err := h.ShowRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load show failed"})
	}
	seats, err := h.ShowSeatRepo.ListByShow(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"show_id": id, "seats": seats})
}
