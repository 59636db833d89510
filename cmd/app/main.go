package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/partnerrepo"
	"fulfillment/internal/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ExporterURL: configs.TracingExporterURL,
		SampleRate:  configs.TracingSampleRate,
		ServiceName: "fulfillment",
		Environment: configs.Environment,
	})
	if err != nil {
		log.Fatalf("Error initializing tracer: %v", err)
	}
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	gormDB := mustConnectDB(configs)

	producer, err := kafka.NewProducer(kafka.Config{
		Brokers:           configs.KafkaBrokers,
		StatusTopic:       configs.KafkaOrderStatusTopic,
		StockReleaseTopic: configs.KafkaStockReleaseTopic,
		ClientID:          configs.KafkaClientID,
	}, logger)
	if err != nil {
		log.Fatalf("Error connecting to kafka: %v", err)
	}
	defer producer.Close()

	app := cmd.NewCompositionRoot(configs, gormDB, producer, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, &app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	// .env is a development convenience; in deployed environments the
	// variables come from the process environment directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", "postgres"),
		DBName:     envOr("DB_NAME", "fulfillment"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		KafkaBrokers:           strings.Split(envOr("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaOrderStatusTopic:  envOr("KAFKA_ORDER_STATUS_TOPIC", "order-status-changed"),
		KafkaStockReleaseTopic: envOr("KAFKA_STOCK_RELEASE_TOPIC", "stock-release"),
		KafkaClientID:          envOr("KAFKA_CLIENT_ID", "fulfillment"),

		ReturnWindow:     time.Duration(envInt("RETURN_WINDOW_HOURS", 48)) * time.Hour,
		DispatchInterval: time.Duration(envInt("DISPATCH_INTERVAL_SECONDS", 30)) * time.Second,

		TracingExporterURL: envOr("OTLP_EXPORTER_URL", "localhost:4318"),
		TracingSampleRate:  envFloat("TRACING_SAMPLE_RATE", 1.0),
		Environment:        envOr("APP_ENV", "dev"),
	}
}

func envOr(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost,
		configs.DBPort,
		configs.DBUser,
		configs.DBPassword,
		configs.DBName,
		configs.DBSslMode,
	)

	gormDB, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&partnerrepo.PartnerDTO{},
	); err != nil {
		log.Fatalf("Error migrating database schema: %v", err)
	}

	return gormDB
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string) {
	e := echo.New()
	app.CreateHTTPServer().RegisterRoutes(e)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}
