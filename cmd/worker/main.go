package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/holvik/staybook/config"
	"github.com/holvik/staybook/internal/cache"
	"github.com/holvik/staybook/internal/email"
	"github.com/holvik/staybook/internal/kafka"
	"github.com/holvik/staybook/internal/logger"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := cache.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
		defer consumer.Close()

		emailSender := email.NewSender(cfg.SMTP)

		go func() {
			if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
				var event kafka.BookingEvent
				if err := json.Unmarshal(msg.Value, &event); err != nil {
					log.Printf("decode event error: %v", err)
					return nil
				}
				if err := emailSender.Send(ctx, event); err != nil {
					// Mail is best effort; the booking already exists upstream.
					log.Printf("notification error: %v", err)
				}
				return nil
			}); err != nil {
				log.Printf("consumer stopped: %v", err)
			}
		}()
	}

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.SweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			removed, err := cache.SweepOrphanedSlots(ctx, redisClient)
			if err != nil {
				log.Printf("sweep orphaned slots error: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("removed %d orphaned slots", removed)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
