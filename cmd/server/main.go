package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/adapters/event"
	httpAdapter "github.com/khoahotran/cloudinary-studio/adapters/http"
	"github.com/khoahotran/cloudinary-studio/adapters/media_storage"
	"github.com/khoahotran/cloudinary-studio/adapters/persistence"
	mediaUC "github.com/khoahotran/cloudinary-studio/internal/application/usecase/media"
	videoUC "github.com/khoahotran/cloudinary-studio/internal/application/usecase/video"
	"github.com/khoahotran/cloudinary-studio/internal/config"
	"github.com/khoahotran/cloudinary-studio/pkg/auth"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
	"github.com/khoahotran/cloudinary-studio/pkg/tracing"
)

const serviceName = "cloudinary-studio-api"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, serviceName)
	defer appLogger.Sync()
	appLogger.Info("Start Cloudinary Studio API Server...", zap.String("env", cfg.App.Env))

	tp, err := tracing.NewTracerProvider(cfg, appLogger, serviceName)
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", err)
			}
		}()
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	mediaClient, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize media client", err)
	}

	// Repositories
	videoRepo := persistence.NewPostgresVideoRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenLifespan)
	limiter := persistence.NewRedisRateLimiter(redisClient, cfg.RateLimit.RequestsPerMinute, time.Minute)

	policy := mediaUC.Policy{
		DeliveryHost:  cfg.Cloudinary.DeliveryHost,
		MaxImageBytes: cfg.Media.MaxImageBytes,
		MaxVideoBytes: cfg.Media.MaxVideoBytes,
	}

	// Use Cases
	uploadAssetUC := mediaUC.NewUploadAssetUseCase(mediaClient, policy, appLogger)
	removeBackgroundUC := mediaUC.NewRemoveBackgroundUseCase(mediaClient, policy, appLogger)
	watermarkUC := mediaUC.NewWatermarkUseCase(mediaClient, policy, appLogger)
	convertFormatUC := mediaUC.NewConvertFormatUseCase(mediaClient, policy, appLogger)
	applyFilterUC := mediaUC.NewApplyFilterUseCase(mediaClient, policy, appLogger)
	trimVideoUC := mediaUC.NewTrimVideoUseCase(mediaClient, policy, appLogger)
	socialCropUC := mediaUC.NewSocialCropUseCase(mediaClient, policy, appLogger)

	uploadVideoUC := videoUC.NewUploadVideoUseCase(videoRepo, mediaClient, kafkaClient, policy.MaxVideoBytes, appLogger)
	createVideoUC := videoUC.NewCreateVideoUseCase(videoRepo, kafkaClient, appLogger)
	listVideosUC := videoUC.NewListVideosUseCase(videoRepo, mediaClient, appLogger)
	setVisibilityUC := videoUC.NewSetVisibilityUseCase(videoRepo, kafkaClient, appLogger)
	deleteVideoUC := videoUC.NewDeleteVideoUseCase(videoRepo, kafkaClient, appLogger)
	publicFeedUC := videoUC.NewPublicFeedUseCase(videoRepo, mediaClient, cfg.App.PublicBaseURL, appLogger)

	// HTTP Handlers
	mediaHandler := httpAdapter.NewMediaHandler(
		uploadAssetUC,
		removeBackgroundUC,
		watermarkUC,
		convertFormatUC,
		applyFilterUC,
		trimVideoUC,
		socialCropUC,
		policy.MaxImageBytes,
		appLogger,
	)
	videoHandler := httpAdapter.NewVideoHandler(
		uploadVideoUC,
		createVideoUC,
		listVideosUC,
		setVisibilityUC,
		deleteVideoUC,
		publicFeedUC,
		policy.MaxVideoBytes,
		appLogger,
	)

	router := httpAdapter.NewRouter(
		httpAdapter.Handlers{Media: mediaHandler, Video: videoHandler},
		jwtSvc,
		limiter,
		appLogger,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	appLogger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	appLogger.Info("Server stopped gracefully")
}
