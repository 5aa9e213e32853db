package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todotracker/internal/adapter/auth"
	dbadapter "todotracker/internal/adapter/db"
	httpadapter "todotracker/internal/adapter/http"
	"todotracker/internal/adapter/http/handlers"
	httpmiddleware "todotracker/internal/adapter/http/middleware"
	"todotracker/internal/adapter/memory"
	mongoadapter "todotracker/internal/adapter/mongo"
	appservice "todotracker/internal/app/service"
	"todotracker/internal/config"
	"todotracker/internal/core/ports"
	"todotracker/pkg/translator"
)

const storeConnectTimeout = 10 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg := config.LoadConfig()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}
	if cfg.JWTSecret == "" {
		if cfg.StoreDriver != "memory" {
			logger.Fatal("JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev-secret"
		logger.Warn("JWT_SECRET not set, using an insecure development secret")
	}

	repo, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Fatal("failed to open task store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	identity := auth.NewJWTIdentityResolver(auth.JWTConfig{SecretKey: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	feed := memory.NewNotificationFeed()
	taskService := appservice.NewTaskService(repo, appservice.WithLocation(loc), appservice.WithNotifier(feed))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger), httpmiddleware.MetricsMiddleware())
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Strings("proxies", cfg.TrustedProxies), zap.Error(err))
	}

	httpadapter.RegisterRoutes(r, httpadapter.Handlers{
		Health:        handlers.NewHealthHandler(repo, cfg.StoreDriver),
		Tasks:         handlers.NewTaskHandler(taskService),
		Notifications: handlers.NewNotificationHandler(feed),
	}, identity)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
			"task-store": closeStore,
		},
	)

	exitCode := <-wait
	logger.Info("server stopped", zap.Int("exit_code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}

// openStore builds the repository selected by STORE_DRIVER and the
// operation that releases it on shutdown.
func openStore(cfg *config.Config) (ports.TaskRepository, gfshutdown.Operation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeConnectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case "memory":
		return memory.NewTaskRepository(), func(context.Context) error { return nil }, nil

	case "mongo", "mongodb":
		client, err := mongoadapter.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		repo := mongoadapter.NewTaskRepository(client.Database(cfg.MongoDatabase))
		if cfg.AutoMigrate {
			if err := repo.EnsureIndexes(ctx); err != nil {
				return nil, nil, fmt.Errorf("ensure mongo indexes: %w", err)
			}
		}
		return repo, client.Disconnect, nil

	default:
		db, err := dbadapter.ConnectDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			if err := dbadapter.Migrate(ctx, db); err != nil {
				return nil, nil, err
			}
		}
		return dbadapter.NewTaskRepository(db), func(context.Context) error { return db.Close() }, nil
	}
}
