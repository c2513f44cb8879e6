package main // Entry point package

import (
    "log" // Logging library

    "github.com/joho/godotenv"    // Loads .env files into the environment
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/flight-seat-reservation/internal/config"
    "github.com/iliyamo/flight-seat-reservation/internal/database"
    "github.com/iliyamo/flight-seat-reservation/internal/handler"
    "github.com/iliyamo/flight-seat-reservation/internal/middleware"
    "github.com/iliyamo/flight-seat-reservation/internal/queue"
    "github.com/iliyamo/flight-seat-reservation/internal/repository"
    "github.com/iliyamo/flight-seat-reservation/internal/router"
    "github.com/iliyamo/flight-seat-reservation/internal/subscription"
)

func main() {
    // Load .env if present; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis is optional: when unreachable, caching and rate limiting
    // degrade to pass-through middleware.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; cache and rate limiting disabled")
    }

    // Repositories.
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    airports := repository.NewAirportRepo(db)
    aircraft := repository.NewAircraftRepo(db)
    flights := repository.NewFlightRepo(db)
    bookings := repository.NewBookingRepo(db)

    // The inventory store serializes seat-map access per flight; the
    // dispatcher re-evaluates parked seat watches whenever a flight's
    // seat map changes.
    store := repository.NewInventoryStore(flights, aircraft, bookings)
    registry := subscription.NewRegistry()
    dispatcher := subscription.NewDispatcher(registry, store, cfg.SubscriptionWorkers, cfg.SubscriptionQueue)
    defer dispatcher.Stop()

    // Background consumer appends confirmed bookings to logs/booking.log.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking-consumer: %v", err)
        }
    }()

    e := echo.New()
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
    router.RegisterFlights(e, handler.NewFlightHandler(flights, airports, store))
    router.RegisterBookings(e,
        handler.NewBookingHandler(store, bookings, flights, dispatcher),
        handler.NewSubscribeHandler(registry, dispatcher),
        cfg.JWTSecret)
    router.RegisterAdmin(e, handler.NewAdminHandler(airports, aircraft, flights), cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
