package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/prasant-0n/BookMyShowtime-backend/internal/allocator"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/clock"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/config"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/database"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/handler"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/middleware"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/notifier"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/queue"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/repository"
	"github.com/prasant-0n/BookMyShowtime-backend/internal/router"
)

func main() {
	// .env is optional; in containers the environment is injected.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	movieRepo := repository.NewMovieRepo(db)
	cinemaRepo := repository.NewCinemaRepo(db)
	screenRepo := repository.NewScreenRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	showRepo := repository.NewShowRepo(db)
	showSeatRepo := repository.NewShowSeatRepo(db)
	bookingStore := repository.NewBookingStore(db)

	opts := []allocator.Option{
		allocator.WithNotifier(notifier.New(os.Getenv("RABBITMQ_URL"))),
	}
	if cfg.HoldTTLMin > 0 {
		opts = append(opts, allocator.WithHoldTTL(time.Duration(cfg.HoldTTLMin)*time.Minute))
	}
	alloc := allocator.New(bookingStore, clock.NewSystem(), opts...)

	// Background notification consumer.  It reconnects on its own; a
	// broker outage only delays notifications.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	// Expiry sweep: pending bookings whose hold window elapsed are
	// cancelled and their seats returned to the pool.
	sweepEvery := time.Duration(cfg.SweepEverySec) * time.Second
	if sweepEvery <= 0 {
		sweepEvery = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			n, err := alloc.ReleaseExpired(ctx)
			cancel()
			if err != nil {
				log.Printf("expiry sweep: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("expiry sweep: released %d expired holds", n)
			}
		}
	}()

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicH := handler.NewPublicHandler(movieRepo, cinemaRepo, screenRepo, showRepo, showSeatRepo)
	adminH := handler.NewAdminHandler(movieRepo, cinemaRepo, screenRepo, seatRepo, showRepo, showSeatRepo)
	bookingH := handler.NewBookingHandler(alloc, bookingStore)
	ticketH := handler.NewTicketHandler(bookingStore)
	paymentH := handler.NewPaymentHandler(alloc, bookingStore, cfg.WebhookSecret)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Redis-backed response cache and token bucket protect the public
	// browse endpoints, which take the bulk of unauthenticated traffic.
	rdb := config.NewRedisClient()
	browseMW := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, browseMW...)
	router.RegisterCustomer(e, bookingH, ticketH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)
	router.RegisterWebhook(e, paymentH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
