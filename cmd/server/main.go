package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kedikian/admin-gateway/internal/api"
	"github.com/kedikian/admin-gateway/internal/core/service"
	"github.com/kedikian/admin-gateway/internal/infrastructure/audit"
	"github.com/kedikian/admin-gateway/internal/infrastructure/backend"
	"github.com/kedikian/admin-gateway/internal/infrastructure/config"
	"github.com/kedikian/admin-gateway/internal/infrastructure/credstore"
	"github.com/kedikian/admin-gateway/internal/infrastructure/db/redis"
	"github.com/kedikian/admin-gateway/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	// --- Credential store ---
	var rdb *goredis.Client
	opts := []credstore.Option{credstore.WithFilePath(cfg.Session.FilePath)}
	if credstore.Driver(cfg.Session.StoreDriver) == credstore.DriverRedis {
		var err error
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		opts = append(opts, credstore.WithRedisClient(rdb))
	}
	store, err := credstore.New(credstore.Driver(cfg.Session.StoreDriver), opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build credential store")
	}

	// --- Backend clients ---
	// Auth endpoints bypass the authorizer by allow-list, so one client with
	// the authorized transport serves both sides.
	authorizer := backend.NewAuthorizer(nil, store, log,
		backend.WithTokenWait(time.Duration(cfg.Backend.TokenWaitMillis)*time.Millisecond))
	client := backend.NewClient(cfg.Backend.URL, authorizer, log)

	// --- Services ---
	sessions := service.NewSessionManager(store, client, log)
	authorizer.SetOnUnauthorized(func() { sessions.Invalidate(context.Background()) })
	projects := service.NewProjectService(client, log)

	auditCtx, stopAudit := context.WithCancel(ctx)
	defer stopAudit()
	audit.NewObserver(sessions, log).Start(auditCtx)

	e := api.NewRouter(sessions, projects, cfg.Backend.URL, rdb, log)

	// --- Start and shut down gracefully ---
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.URL).Msg("admin gateway started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("admin gateway stopped")
}
