package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/khoahotran/devconnect/adapters/cache"
	"github.com/khoahotran/devconnect/adapters/event"
	"github.com/khoahotran/devconnect/adapters/github"
	"github.com/khoahotran/devconnect/adapters/media_storage"
	"github.com/khoahotran/devconnect/adapters/persistence"
	"github.com/khoahotran/devconnect/internal/application/service"
	profileUC "github.com/khoahotran/devconnect/internal/application/usecase/profile"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/pkg/logger"
	"github.com/khoahotran/devconnect/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs Kafka", errors.New("kafka.brokers is empty"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "devconnect-worker")
	if err != nil {
		appLogger.Fatal("Cannot init tracer", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			appLogger.Error("Tracer shutdown error", err)
		}
	}()

	redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Redis", err)
	}
	defer redisClient.Close()

	var uploader service.Uploader
	if cfg.Cloudinary.CloudName != "" {
		uploader, err = media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}
	}

	processUC := profileUC.NewProcessProfileEventUseCase(
		github.NewClient(cfg, appLogger),
		cache.NewRedisRepoCache(redisClient),
		uploader,
		cfg.GitHub.CacheTTL,
		appLogger,
	)

	consumer := event.NewProfileEventConsumer(cfg, processUC, appLogger)
	defer consumer.Close()

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Consumer stopped", err)
	}
	appLogger.Info("Worker stopped")
}
