package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/holvik/staybook/api"
	"github.com/holvik/staybook/config"
	"github.com/holvik/staybook/internal/bootstrap"
	"github.com/holvik/staybook/internal/cache"
	"github.com/holvik/staybook/internal/kafka"
	"github.com/holvik/staybook/internal/logger"
	"github.com/holvik/staybook/internal/mailbox"
	"github.com/holvik/staybook/internal/remote"
	"github.com/holvik/staybook/internal/service/dashboard"
	"github.com/holvik/staybook/internal/service/handoff"
	"github.com/holvik/staybook/internal/service/venues"
	"github.com/holvik/staybook/internal/session"
)

func main() {
	config.LoadEnv()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.InitLoggers(cfg.Log.Dir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := cache.NewRedisClient(cfg.Redis)
	defer redisClient.Close()
	store := cache.NewRedisStore(redisClient)

	client := remote.NewClient(cfg.Remote)

	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	sessions := session.NewManager(store, sessionTTL)
	intents := mailbox.New(store, sessionTTL)

	engine := venues.NewEngine(client)

	controllerOpts := []handoff.ControllerOption{
		handoff.WithSettleDelay(time.Duration(cfg.Payment.SettleDelayMillis) * time.Millisecond),
	}
	var producer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		controllerOpts = append(controllerOpts, handoff.WithNotifications(producer, cfg.Kafka.NotificationsTopic))
	}
	controller := handoff.NewController(client, client, intents, store, controllerOpts...)

	dashboards := dashboard.NewService(client, client)

	handlers := bootstrap.Handlers{
		Venues:   api.NewVenueHandler(engine, client),
		Bookings: api.NewBookingHandler(controller, client),
		Auth:     api.NewAuthHandler(client, sessions, controller),
		Profiles: api.NewProfileHandler(client, controller, dashboards, sessions),
	}

	if err := bootstrap.Run(ctx, cfg, sessions, redisClient, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
