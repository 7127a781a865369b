package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"fulfillment/cmd"
	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/storage"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	sqlDB, err := storage.OpenAndMigrate(dsn)
	if err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect gorm: %v", err)
	}

	var publisher commands.OrderEventPublisher
	if configs.KafkaHost != "" {
		producer, producerErr := kafka.NewSyncProducer([]string{configs.KafkaHost})
		if producerErr != nil {
			log.Fatalf("Failed to create kafka producer: %v", producerErr)
		}
		kafkaPublisher := kafka.NewOrderStatusChangedProducer(
			producer, configs.KafkaOrderChangedTopic, logger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	app := cmd.NewCompositionRoot(gormDB, publisher, logger)

	jobManager := app.CreateJobManager(configs.StaleOrderThreshold)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:               goDotEnvVariable("HTTP_PORT"),
		DBHost:                 goDotEnvVariable("DB_HOST"),
		DBPort:                 goDotEnvVariable("DB_PORT"),
		DBUser:                 goDotEnvVariable("DB_USER"),
		DBPassword:             goDotEnvVariable("DB_PASSWORD"),
		DBName:                 goDotEnvVariable("DB_NAME"),
		DBSslMode:              goDotEnvVariable("DB_SSLMODE"),
		KafkaHost:              goDotEnvVariable("KAFKA_HOST"),
		KafkaOrderChangedTopic: goDotEnvVariable("KAFKA_ORDER_CHANGED_TOPIC"),
		StaleOrderThreshold:    staleOrderThreshold(),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func staleOrderThreshold() time.Duration {
	raw := goDotEnvVariable("STALE_ORDER_THRESHOLD")
	if raw == "" {
		return 30 * time.Minute
	}
	threshold, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid STALE_ORDER_THRESHOLD: %v", err)
	}
	return threshold
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpadapter.NewServer(
		app.CreateCheckoutCommandHandler(),
		app.CreateClaimOrderCommandHandler(),
		app.CreateMarkPickedUpCommandHandler(),
		app.CreateVerifyDeliveryCommandHandler(),
		app.CreateGetAvailableOrdersQueryHandler(),
		app.CreateGetCustomerOrdersQueryHandler(),
		app.CreateGetVendorOrdersQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
