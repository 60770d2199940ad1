package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/adapters/event"
	"github.com/khoahotran/cloudinary-studio/adapters/media_storage"
	videoUC "github.com/khoahotran/cloudinary-studio/internal/application/usecase/video"
	"github.com/khoahotran/cloudinary-studio/internal/config"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
	"github.com/khoahotran/cloudinary-studio/pkg/tracing"
)

const (
	serviceName   = "cloudinary-studio-worker"
	consumerGroup = "video-asset-cleanup"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, serviceName)
	defer appLogger.Sync()
	appLogger.Info("Starting Cloudinary Studio Worker...")

	tp, err := tracing.NewTracerProvider(cfg, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	if tp != nil {
		defer tp.Shutdown(context.Background())
	}

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("config Kafka brokers not found", nil)
	}

	// Media client
	mediaClient, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize media client", err)
	}

	// Worker Use Case
	cleanupUC := videoUC.NewCleanupAssetUseCase(mediaClient, appLogger)

	// Kafka Consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicVideoEvents,
		GroupID:  consumerGroup,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	deadLetter := event.NewDeadLetterWriter(cfg.Kafka.Brokers)
	defer deadLetter.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicVideoEvents), zap.String("group", consumerGroup))

	worker := event.NewVideoEventConsumer(consumer, deadLetter, cleanupUC, event.DefaultRetryPolicy, appLogger)
	if err := worker.Run(ctx); err != nil {
		// Exiting leaves the failed message uncommitted, so it is fetched
		// again once the worker restarts.
		appLogger.Fatal("Worker stopped", err)
	}
	appLogger.Info("Worker stopped")
}
