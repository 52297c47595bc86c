package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Pasobeso/medbook-orderservice/internal/api"
	"github.com/Pasobeso/medbook-orderservice/internal/consumer"
	apphttp "github.com/Pasobeso/medbook-orderservice/internal/http"
	"github.com/Pasobeso/medbook-orderservice/internal/relay"
	"github.com/Pasobeso/medbook-orderservice/internal/repository"
	"github.com/Pasobeso/medbook-orderservice/internal/service"
)

type Config struct {
	HTTPPort            string
	KafkaBrokers        []string
	ConsumerGroup       string
	DeliveryServiceURL  string
	InventoryServiceURL string
	RequestTimeout      time.Duration
	ShutdownTimeout     time.Duration
	DB                  repository.Credentials
}

func loadConfig() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		KafkaBrokers:        strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		ConsumerGroup:       getEnv("CONSUMER_GROUP", "order-service"),
		DeliveryServiceURL:  getEnv("DELIVERY_SERVICE_URL", "http://localhost:3000/deliveries-service"),
		InventoryServiceURL: getEnv("INVENTORY_SERVICE_URL", "http://localhost:3000/inventory-service"),
		RequestTimeout:      5 * time.Second,
		ShutdownTimeout:     10 * time.Second,
		DB: repository.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              dbPort,
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "orders"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./internal/repository/migrations"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "order-service").Logger()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	repo, err := repository.NewRepository(&cfg.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer repo.Close()

	if err := repo.RunMigrations(&cfg.DB); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	logger.Info().Msg("database migrations completed")

	pricingClient := api.NewPricingClient(cfg.InventoryServiceURL, cfg.RequestTimeout)
	deliveryClient := api.NewDeliveryClient(cfg.DeliveryServiceURL, cfg.RequestTimeout)

	orderService := service.NewOrderService(repo, pricingClient, deliveryClient, logger)
	cartService := service.NewCartService(repo, pricingClient, logger)
	paymentService := service.NewPaymentService(repo, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var workers sync.WaitGroup

	// Outbox relay: drains PENDING entries onto the broker.
	publisher := relay.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer publisher.Close()
	poller := relay.NewPoller(repo, publisher, logger)
	workers.Add(1)
	go func() {
		defer workers.Done()
		poller.Run(ctx)
	}()

	// Consumption pipeline: applies sibling-service events onto orders.
	pipeline := consumer.NewPipeline(logger, cfg.ConsumerGroup, cfg.KafkaBrokers...)
	consumer.NewHandlers(repo, logger).RegisterAll(pipeline)
	workers.Add(1)
	go func() {
		defer workers.Done()
		pipeline.Run(ctx)
	}()

	router := apphttp.NewRouter(
		apphttp.NewOrdersHandler(orderService),
		apphttp.NewCartsHandler(cartService),
		apphttp.NewPaymentsHandler(paymentService),
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("order service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down order service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown failed")
	}

	// Let the relay and the consumers finish their in-flight work before
	// the process exits.
	workers.Wait()

	logger.Info().Msg("order service stopped")
}
