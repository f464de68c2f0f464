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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/adapters/cache"
	"github.com/khoahotran/devconnect/adapters/event"
	"github.com/khoahotran/devconnect/adapters/github"
	httpAdapter "github.com/khoahotran/devconnect/adapters/http"
	"github.com/khoahotran/devconnect/adapters/media_storage"
	"github.com/khoahotran/devconnect/adapters/persistence"
	"github.com/khoahotran/devconnect/adapters/persistence/mongostore"
	"github.com/khoahotran/devconnect/internal/application/service"
	authUC "github.com/khoahotran/devconnect/internal/application/usecase/auth"
	githubUC "github.com/khoahotran/devconnect/internal/application/usecase/github"
	postUC "github.com/khoahotran/devconnect/internal/application/usecase/post"
	profileUC "github.com/khoahotran/devconnect/internal/application/usecase/profile"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/internal/domain/account"
	"github.com/khoahotran/devconnect/internal/domain/post"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
	"github.com/khoahotran/devconnect/pkg/metrics"
	"github.com/khoahotran/devconnect/pkg/tracing"
)

type repositories struct {
	users    user.Repository
	profiles profile.Repository
	posts    post.Repository
	accounts account.Remover
	close    func(ctx context.Context)
}

func openRepositories(ctx context.Context, cfg config.Config, log logger.Logger) (*repositories, error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		client, err := mongostore.NewClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &repositories{
			users:    mongostore.NewUserRepo(db),
			profiles: mongostore.NewProfileRepo(db),
			posts:    mongostore.NewPostRepo(db),
			accounts: mongostore.NewAccountRemover(client, db),
			close: func(ctx context.Context) {
				if err := client.Disconnect(ctx); err != nil {
					log.Error("MongoDB disconnect error", err)
				}
			},
		}, nil
	default:
		pool, err := persistence.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:    persistence.NewPostgresUserRepo(pool),
			profiles: persistence.NewPostgresProfileRepo(pool),
			posts:    persistence.NewPostgresPostRepo(pool),
			accounts: persistence.NewPostgresAccountRemover(pool),
			close:    func(context.Context) { pool.Close() },
		}, nil
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	if cfg.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "devconnect-api")
	if err != nil {
		appLogger.Fatal("Cannot init tracer", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Error("Tracer shutdown error", err)
		}
	}()

	repos, err := openRepositories(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open storage", err, zap.String("driver", cfg.DB.Driver))
	}

	// Redis only backs the GitHub repo cache; the API keeps working without it.
	var repoCache service.RepoCache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Warn("Redis unavailable, GitHub repo cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			repoCache = cache.NewRedisRepoCache(redisClient)
		}
	}

	var publisher service.EventPublisher = event.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	}

	var uploader service.Uploader
	if cfg.Cloudinary.CloudName != "" {
		uploader, err = media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}
	}

	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	githubClient := github.NewClient(cfg, appLogger)

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(repos.users, jwtSvc, appLogger)
	registerUseCase := authUC.NewRegisterUseCase(repos.users, jwtSvc, appLogger)
	userUseCase := authUC.NewUserUseCase(repos.users, uploader, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(repos.profiles, publisher, appLogger)
	deleteAccountUseCase := profileUC.NewDeleteAccountUseCase(repos.accounts, repos.profiles, publisher, appLogger)
	reposUseCase := githubUC.NewReposUseCase(githubClient, repoCache, cfg.GitHub.CacheTTL, appLogger)
	createPostUseCase := postUC.NewCreatePostUseCase(repos.posts, repos.users, appLogger)
	listPostsUseCase := postUC.NewListPostsUseCase(repos.posts, appLogger)
	deletePostUseCase := postUC.NewDeletePostUseCase(repos.posts, appLogger)

	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		JWT:     jwtSvc,
		Logger:  appLogger,
		Metrics: metrics.NewHTTP(),
		Auth:    httpAdapter.NewAuthHandler(loginUseCase, registerUseCase, userUseCase, appLogger),
		Profile: httpAdapter.NewProfileHandler(profileUseCase, deleteAccountUseCase, reposUseCase, appLogger),
		Post:    httpAdapter.NewPostHandler(createPostUseCase, listPostsUseCase, deletePostUseCase),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port), zap.String("driver", cfg.DB.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctxShut, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShut); err != nil {
		appLogger.Error("Server shutdown error", err)
	}
	repos.close(ctxShut)
}
