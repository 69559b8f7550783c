package main

import (
	"context"
	"log"
	"time"

	"lab-booking/cmd"
	"lab-booking/internal/bookingnum"
	"lab-booking/internal/data/repository"
	"lab-booking/internal/notify"
	"lab-booking/internal/wire"
	"lab-booking/pkg/database"
	"lab-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Booking number generator: Redis when reachable, else the Postgres
	// sequence table. The choice is made once at boot; restarting mid-day
	// switches counters, and the unique index on booking_number plus the
	// bounded create retries absorb the resulting collisions.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	var allocator bookingnum.Allocator
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, falling back to database sequences", zap.Error(err))
		redisClient.Close()
		allocator = repos.Sequence
	} else {
		logger.Info("Redis connected successfully")
		allocator = bookingnum.NewRedisAllocator(redisClient)
		defer redisClient.Close()
	}
	cancel()

	numbers := bookingnum.NewGenerator(allocator)

	// Notification trigger producer
	producer := notify.NewProducer(config.Kafka.Brokers, config.Kafka.Topic)
	defer producer.Close()

	// Wire all dependencies
	app := wire.Wiring(repos, numbers, producer, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port, logger)
}
