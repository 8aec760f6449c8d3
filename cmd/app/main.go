package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airline-reservation/config"
	"github.com/Domenick1991/airline-reservation/internal/bootstrap"
	"github.com/Domenick1991/airline-reservation/internal/cache"
	"github.com/Domenick1991/airline-reservation/internal/cancellation"
	"github.com/Domenick1991/airline-reservation/internal/kafka"
	"github.com/Domenick1991/airline-reservation/internal/logger"
	"github.com/Domenick1991/airline-reservation/internal/repository"
	"github.com/Domenick1991/airline-reservation/internal/scheduler"
	"github.com/Domenick1991/airline-reservation/internal/service/booking"
	"github.com/Domenick1991/airline-reservation/internal/service/flights"
	"github.com/Domenick1991/airline-reservation/internal/service/support"
	"github.com/Domenick1991/airline-reservation/internal/service/user"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		lg.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := repository.InitializeSchema(ctx, pool); err != nil {
		lg.Fatal("initialize schema", zap.Error(err))
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Flights.SearchCacheTTL())
	producer := kafka.NewProducer(cfg.Kafka.Brokers, lg.Named("kafka"))
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		lg.Warn("kafka unavailable, events will fail to publish", zap.Error(err))
	}

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	policy := cancellation.NewPolicy(cfg.Cancellation.ChargeRate, cfg.Cancellation.RefundMinDays, cfg.Cancellation.RefundMaxDays)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		lg.Named("bookings"),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithPolicy(policy),
	)
	userService := user.NewUserService(userRepo, cfg.Auth.JWTSecret, lg.Named("users"),
		user.WithTokenTTL(cfg.Auth.TokenTTL()),
		user.WithBcryptCost(cfg.Auth.BcryptCost),
	)
	ticketService := support.NewTicketService(ticketRepo, userRepo, lg.Named("tickets"),
		support.WithEvents(producer, cfg.Kafka.NotificationsTopic),
	)
	flightService := flights.NewFlightService(flightRepo, redisCache, lg.Named("flights"))

	reconcileScheduler := scheduler.NewCancellationScheduler(
		bookingService,
		cfg.Cancellation.ReconcileInterval(),
		lg.Named("scheduler"),
		scheduler.WithLocker(redisCache, cfg.Cancellation.LockTTL()),
	)

	svcs := bootstrap.Services{Bookings: bookingService, Tickets: ticketService, Flights: flightService, Users: userService}
	if err := bootstrap.Run(ctx, cfg, lg, svcs, reconcileScheduler); err != nil {
		lg.Fatal("server error", zap.Error(err))
	}
}
