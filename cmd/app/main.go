package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookoro/config"
	"bookoro/internal/bootstrap"
	"bookoro/internal/cache"
	"bookoro/internal/database"
	"bookoro/internal/kafka"
	"bookoro/internal/repository"
	"bookoro/internal/service/auth"
	"bookoro/internal/service/booking"
	"bookoro/internal/service/flights"

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

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.Database.DSN()); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Flights.CacheTTLSeconds)*time.Second)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	tokens := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTTLMinutes)*time.Minute,
		time.Duration(cfg.Auth.RefreshTTLHours)*time.Hour,
	)

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	flightService := flights.NewFlightService(flightRepo, redisCache)
	bookingService := booking.NewBookingService(bookingRepo, userRepo, producer, cfg.Kafka.NotificationsTopic, logger)
	authService := auth.NewAuthService(
		userRepo,
		redisCache,
		tokens,
		producer,
		cfg.Kafka.NotificationsTopic,
		cfg.Auth.OTPLength,
		time.Duration(cfg.Auth.OTPTTLMinutes)*time.Minute,
		logger,
	)

	deps := bootstrap.Deps{
		Tokens:   tokens,
		Users:    userRepo,
		Auth:     authService,
		Flights:  flightService,
		Bookings: bookingService,
		Logger:   logger,
	}

	logger.Info("starting http server", zap.String("address", cfg.HTTP.Address))
	if err := bootstrap.Run(ctx, cfg, deps); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
