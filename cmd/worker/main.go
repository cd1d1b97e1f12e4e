package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bookoro/config"
	"bookoro/internal/email"
	"bookoro/internal/kafka"

	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// The worker consumes notification events and delivers the emails. Failures
// are logged and the event is dropped; delivery is best-effort by design.
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender(cfg.SMTP)

	logger.Info("notification worker started",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.NotificationsTopic))

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.NotificationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("decode event", zap.Error(err))
			return nil
		}

		switch event.Type {
		case kafka.EventBookingCreated:
			if err := sender.SendBookingConfirmation(ctx, event); err != nil {
				logger.Error("send booking confirmation",
					zap.String("booking_id", event.BookingID), zap.Error(err))
			}
		case kafka.EventOTPIssued:
			if err := sender.SendOTP(ctx, event); err != nil {
				logger.Error("send verification code",
					zap.String("email", event.Email), zap.Error(err))
			}
		default:
			logger.Warn("unknown event type", zap.String("type", event.Type))
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", zap.Error(err))
	}
}
