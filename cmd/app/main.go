package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"marketplace/cmd"
	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/routerepo"
	"marketplace/internal/adapters/out/postgres/stockrepo"
	"marketplace/internal/adapters/out/redisx"
	"marketplace/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs(logger)

	gormDB, err := openDatabase(configs)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	publisher := kafka.NewOrderChangedPublisher(
		strings.Split(configs.KafkaHost, ","), configs.KafkaOrderChangedTopic)
	defer publisher.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})
	defer redisClient.Close()

	app, err := cmd.NewCompositionRoot(
		configs, gormDB, publisher, redisx.NewIdempotencyStore(redisClient))
	if err != nil {
		logger.Error("Failed to build composition root", "error", err)
		os.Exit(1)
	}

	jobManager := jobs.NewJobManager(
		app.CreateExpireReservationsCommandHandler(),
		app.CreateAssignRoutesCommandHandler(),
		configs.SweepBatchLimit,
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		logger.Error("Failed to start jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort, logger)
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("No .env file found, reading configuration from environment")
	}

	return cmd.Config{
		HTTPPort:   envString("HTTP_PORT", "8080"),
		DBHost:     envString("DB_HOST", "localhost"),
		DBPort:     envString("DB_PORT", "5432"),
		DBUser:     envString("DB_USER", "postgres"),
		DBPassword: envString("DB_PASSWORD", "postgres"),
		DBName:     envString("DB_NAME", "marketplace"),
		DBSslMode:  envString("DB_SSLMODE", "disable"),

		KafkaHost:              envString("KAFKA_HOST", "localhost:9092"),
		KafkaOrderChangedTopic: envString("KAFKA_ORDER_CHANGED_TOPIC", "order.changed"),
		RedisAddr:              envString("REDIS_ADDR", "localhost:6379"),

		ReservationTTL:      envDuration(logger, "RESERVATION_TTL", 17*time.Minute),
		DeliverySLA:         envDuration(logger, "DELIVERY_SLA", 4*time.Hour),
		IdempotencyTTL:      envDuration(logger, "IDEMPOTENCY_TTL", 24*time.Hour),
		SweepBatchLimit:     envInt(logger, "SWEEP_BATCH_LIMIT", 100),
		RouteCapacity:       envInt(logger, "ROUTE_CAPACITY", 8),
		ClusterRadiusKm:     envFloat(logger, "CLUSTER_RADIUS_KM", 5),
		RouteDeadlineSpread: envDuration(logger, "ROUTE_DEADLINE_SPREAD", 2*time.Hour),
	}
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&routerepo.RouteDTO{},
		&routerepo.RouteStopDTO{},
		&stockrepo.StockLevelDTO{},
		&stockrepo.ReservationDTO{},
		&catalogrepo.ProductDTO{},
	); err != nil {
		return nil, err
	}

	return gormDB, nil
}

func startWebServer(app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	server := httpin.NewServer(
		app.CreateCheckoutCommandHandler(),
		app.CreateConfirmPaymentCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateAcceptRouteCommandHandler(),
		app.CreateReportProgressCommandHandler(),
		app.CreateGetAssignableRoutesQueryHandler(),
		app.CreateGetCourierSummaryQueryHandler(),
		app.IdempotencyStore(),
		app.Config().IdempotencyTTL,
	)

	e := echo.New()
	e.HideBanner = true
	server.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil {
			logger.Info("Web server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Web server shutdown failed", "error", err)
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(logger *slog.Logger, key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		logger.Warn("Invalid duration in environment, using default",
			"key", key, "value", raw, "default", fallback)
		return fallback
	}
	return value
}

func envInt(logger *slog.Logger, key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		logger.Warn("Invalid integer in environment, using default",
			"key", key, "value", raw, "default", fallback)
		return fallback
	}
	return value
}

func envFloat(logger *slog.Logger, key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Warn("Invalid float in environment, using default",
			"key", key, "value", raw, "default", fallback)
		return fallback
	}
	return value
}
