// Package router wires handlers to routes.  Route registration is
// split by audience: public browse, auth, customer bookings, admin
// catalog management and the payment webhook.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/handler"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/middleware"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/model"
)

// RegisterRoutes registers routes that need no handler state.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers registration, login and token lifecycle
// endpoints under /v1/auth, plus the authenticated /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse API.  The
// caller supplies the middleware chain (response cache, rate limit)
// applied to every browse route.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/movies", p.ListMovies)
	g.GET("/movies/:id", p.GetMovie)
	g.GET("/cinemas", p.ListCinemas)
	g.GET("/cinemas/:id/screens", p.ListCinemaScreens)
	g.GET("/search/shows", p.SearchShows)
	g.GET("/shows/:id", p.GetShow)
	g.GET("/shows/:id/seats", p.GetShowSeats)
}

// RegisterCustomer registers booking endpoints.  Any authenticated
// user may book; admins are customers too.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, t *handler.TicketHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	)
	g.POST("/shows/:id/bookings", b.PlaceBooking)
	g.GET("/bookings", b.ListMyBookings)
	g.GET("/bookings/:id", b.GetMyBooking)
	g.DELETE("/bookings/:id", b.ReleaseBooking)
	g.GET("/bookings/:id/ticket", t.DownloadTicket)
}

// RegisterAdmin registers ADMIN-scoped catalog management under
// /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.POST("/movies", a.CreateMovie)
	g.PUT("/movies/:id", a.UpdateMovie)
	g.DELETE("/movies/:id", a.DeleteMovie)

	g.POST("/cinemas", a.CreateCinema)
	g.PUT("/cinemas/:id", a.UpdateCinema)
	g.DELETE("/cinemas/:id", a.DeleteCinema)

	g.POST("/cinemas/:id/screens", a.CreateScreen)
	g.GET("/cinemas/:id/screens", a.ListScreens)
	g.DELETE("/screens/:id", a.DeleteScreen)

	g.POST("/shows", a.CreateShow)
	g.GET("/screens/:id/shows", a.ListShowsByScreen)
	g.POST("/shows/:id/cancel", a.CancelShow)
	g.DELETE("/shows/:id", a.DeleteShow)
}

// RegisterWebhook registers the payment provider callback.  It is
// authenticated by shared secret inside the handler, not by JWT.
func RegisterWebhook(e *echo.Echo, p *handler.PaymentHandler) {
	e.POST("/v1/payments/webhook", p.HandleWebhook)
}
