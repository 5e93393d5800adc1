package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/config"
	"github.com/clubreserva/field-booking-api/internal/database"
	"github.com/clubreserva/field-booking-api/internal/handler"
	"github.com/clubreserva/field-booking-api/internal/middleware"
	"github.com/clubreserva/field-booking-api/internal/queue"
	"github.com/clubreserva/field-booking-api/internal/repository"
	"github.com/clubreserva/field-booking-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	clubRepo := repository.NewClubRepo(db)
	fieldRepo := repository.NewFieldRepo(db)
	scheduleRepo := repository.NewScheduleRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	memberRepo := repository.NewMemberRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	ownerHandler := handler.NewOwnerHandler(clubRepo, fieldRepo, scheduleRepo, reservationRepo, notificationRepo)
	playerHandler := handler.NewPlayerHandler(scheduleRepo, reservationRepo, clubRepo)
	memberHandler := handler.NewMemberHandler(reservationRepo, memberRepo, userRepo, notificationRepo)
	publicHandler := handler.NewPublicHandler(clubRepo, fieldRepo, scheduleRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, memberRepo)

	// Redis powers the public response cache and the booking rate limiter.
	// Both degrade gracefully when the client is nil.
	rdb := config.NewRedisClient()
	var cacheMW, rateMW echo.MiddlewareFunc
	if rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		rateMW = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	// The event consumer turns reservation events into owner notifications
	// and an append-only log. It reconnects forever in the background.
	go func() {
		if err := queue.StartReservationConsumer(notificationRepo); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, cacheMW)
	router.RegisterOwner(e, ownerHandler, cfg.JWTSecret)
	router.RegisterPlayer(e, playerHandler, memberHandler, cfg.JWTSecret, rateMW)
	router.RegisterNotifications(e, notificationHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
