package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lab-booking/internal/notify"
	"lab-booking/pkg/utils"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// The notification worker drains booking trigger records from Kafka and turns
// them into customer emails. It runs as its own process so email slowness
// never backs up the booking API.
func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger = logger.With(zap.String("component", "notification-worker"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := notify.NewConsumer(config.Kafka.Brokers, config.Kafka.GroupID, config.Kafka.Topic)
	defer consumer.Close()

	sender := notify.NewEmailSender(config.Email)

	logger.Info("Notification worker started",
		zap.Strings("brokers", config.Kafka.Brokers),
		zap.String("topic", config.Kafka.Topic),
		zap.String("group_id", config.Kafka.GroupID),
	)

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, msg kafka.Message) error {
			var event notify.Event
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Warn("Skipping malformed trigger record",
					zap.Error(err),
					zap.ByteString("key", msg.Key))
				return nil
			}

			if err := sender.Send(event); err != nil {
				// Log and move on; a broken mail server must not wedge the
				// consumer group on one record.
				logger.Error("Failed to send notification email",
					zap.Error(err),
					zap.String("kind", string(event.Kind)),
					zap.String("booking_number", event.BookingNumber))
				return nil
			}

			logger.Info("Notification email sent",
				zap.String("kind", string(event.Kind)),
				zap.String("booking_number", event.BookingNumber))
			return nil
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("Consumer stopped", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig

	logger.Info("Shutting down notification worker", zap.String("signal", s.String()))
	cancel()
}
