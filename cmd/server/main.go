package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"covid_market/internal/app/di"
	"covid_market/internal/app/router"
	cataloghandler "covid_market/internal/feature/catalog/transport/handler"
	chathandler "covid_market/internal/feature/chat/transport/handler"
	chatusecase "covid_market/internal/feature/chat/usecase"
	insighthandler "covid_market/internal/feature/insight/transport/handler"
	insightusecase "covid_market/internal/feature/insight/usecase"
	infradb "covid_market/internal/platform/db"
	healthhandler "covid_market/internal/platform/http/handler"
	infraredis "covid_market/internal/platform/redis"
	"covid_market/internal/shared/ratelimiter"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// .envを読み込む
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog
	catalogCfg, err := di.LoadCatalogConfig()
	if err != nil {
		slog.Error("invalid catalog configuration", "error", err)
		os.Exit(1)
	}
	repo, err := di.NewDefinitionRepository(ctx, catalogCfg, func() (*gorm.DB, error) {
		return infradb.OpenDB(infradb.LoadConfigFromEnv())
	})
	if err != nil {
		slog.Error("failed to load catalog definitions", "error", err)
		os.Exit(1)
	}
	catalog, err := di.NewCatalog(ctx, catalogCfg, repo)
	if err != nil {
		slog.Error("failed to build catalog", "error", err)
		os.Exit(1)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// AI
	handlers := router.Handlers{
		Health:  healthhandler.NewHealthHandler(catalog),
		Catalog: cataloghandler.NewCatalogHandler(catalog),
	}
	ai, err := di.NewAI(ctx, rdb)
	if err != nil {
		slog.Warn("Gemini client unavailable. AI endpoints will return 503.", "error", err)
		handlers.Chat = chathandler.NewChatHandler(chatusecase.NewChatUsecase(nil))
	} else {
		handlers.AIEnabled = true
		handlers.Insight = insighthandler.NewInsightHandler(insightusecase.NewInsightUsecase(catalog, ai.Analyzer))
		handlers.Chat = chathandler.NewChatHandler(chatusecase.NewChatUsecase(ai.Chatter))
	}

	// ルータ生成
	opts := router.LoadOptions()
	opts.AILimiter = ratelimiter.NewRateLimiter(ratelimiter.LoadConfig()).Middleware()
	engine := router.NewRouter(handlers, opts)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr, "catalog_id", catalog.ID())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
