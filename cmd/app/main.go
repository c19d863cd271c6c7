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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"refuel/cmd"
	httpapi "refuel/internal/adapters/in/http"
)

func main() {
	configs := getConfigs()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	gormDB, err := gorm.Open(gormpostgres.Open(configs.PostgresDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to postgres: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error wiring the application: %v", err)
	}
	defer app.Close()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, logger, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:            goDotEnvVariable("HTTP_PORT"),
		DBHost:              goDotEnvVariable("DB_HOST"),
		DBPort:              goDotEnvVariable("DB_PORT"),
		DBUser:              goDotEnvVariable("DB_USER"),
		DBPassword:          goDotEnvVariable("DB_PASSWORD"),
		DBName:              goDotEnvVariable("DB_NAME"),
		DBSslMode:           goDotEnvVariable("DB_SSLMODE"),
		KafkaBrokers:        splitList(goDotEnvVariable("KAFKA_BROKERS")),
		KafkaTickAuditTopic: goDotEnvVariable("KAFKA_TICK_AUDIT_TOPIC"),
		KafkaClientID:       envOrDefault("KAFKA_CLIENT_ID", "refuel-dispatch"),
		MqttBroker:          goDotEnvVariable("MQTT_BROKER"),
		MqttClientID:        envOrDefault("MQTT_CLIENT_ID", "refuel-dispatch"),
		MqttUsername:        goDotEnvVariable("MQTT_USERNAME"),
		MqttPassword:        goDotEnvVariable("MQTT_PASSWORD"),
		MqttQoS:             byte(envIntOrDefault("MQTT_QOS", 1)),
		TickInterval:        envDurationOrDefault("DISPATCH_TICK_INTERVAL", 5*time.Second),
		StaleAfter:          envDurationOrDefault("HEARTBEAT_STALE_AFTER", 90*time.Second),
		ReminderAfter:       envDurationOrDefault("ACCEPTANCE_REMINDER_AFTER", 3*time.Minute),
		ReminderBefore:      envDurationOrDefault("ACCEPTANCE_REMINDER_BEFORE", 4*time.Minute),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}

	return os.Getenv(key)
}

func envOrDefault(key string, fallback string) string {
	if value := goDotEnvVariable(key); value != "" {
		return value
	}

	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}

	return value
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := goDotEnvVariable(key)
	if raw == "" {
		return fallback
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}

	return value
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	return values
}

func startWebServer(app *cmd.CompositionRoot, logger *slog.Logger, port string) {
	e := echo.New()

	server := httpapi.NewServer(app.HTTPHandlers(), app.Gatherer(), logger)
	server.RegisterRoutes(e)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", slog.Any("error", err))
		}
	}()

	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Error starting the web server: %v", err)
	}
}
