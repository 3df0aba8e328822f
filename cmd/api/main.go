// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-api/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-api/internal/infrastructure/messaging/kafka"
	"github.com/your-org/storefront-api/internal/interfaces/http"
	"github.com/your-org/storefront-api/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg)
	logg.WithField("version", cfg.App.Version).
		WithField("environment", cfg.App.Environment).
		Infof("Starting %s", cfg.App.Name)

	db, err := postgres.NewConnection(cfg, logg)
	if err != nil {
		logg.WithError(err).Fatal("Failed to connect to database")
	}

	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		_ = db.Close()
		logg.WithError(err).Fatal("Failed to connect to Redis")
	}

	migration := postgres.NewMigration(db.GetDB(), logg)
	if err := migration.RunAutoMigrations(); err != nil {
		logg.WithError(err).Fatal("Database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		logg.WithError(err).Warn("Index creation failed")
	}
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(cfg); err != nil {
			logg.WithError(err).Warn("Data seeding failed")
		}
	}

	var publisher order.EventPublisher = order.NopPublisher{}
	var producer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(cfg, logg)
		publisher = producer
		logg.WithField("topic", cfg.Kafka.OrderTopic).Info("Publishing order events to Kafka")
	}

	server := http.NewServer(cfg, logg, http.Dependencies{
		DB:        db.GetDB(),
		Redis:     redisClient.GetClient(),
		Publisher: publisher,
		Checks: map[string]http.HealthChecker{
			"database": db,
			"redis":    redisClient,
		},
	})

	go func() {
		if err := server.Start(); err != nil {
			logg.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// HTTP first so in-flight requests can still reach the pools
	if err := server.Stop(ctx); err != nil {
		logg.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}
	if producer != nil {
		if err := producer.Close(ctx); err != nil {
			logg.WithError(err).Error("Failed to flush order events")
		}
	}
	if err := redisClient.Close(); err != nil {
		logg.WithError(err).Error("Failed to close Redis")
	}
	if err := db.Close(); err != nil {
		logg.WithError(err).Error("Failed to close database")
	}

	logg.Info("Server shutdown completed")
}
