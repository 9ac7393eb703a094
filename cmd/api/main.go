package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomltr/trendie-backend/internal/api"
	"github.com/tomltr/trendie-backend/internal/api/web"
	"github.com/tomltr/trendie-backend/internal/auth"
	"github.com/tomltr/trendie-backend/internal/config"
	"github.com/tomltr/trendie-backend/internal/db"
	"github.com/tomltr/trendie-backend/internal/logger"
	"github.com/tomltr/trendie-backend/internal/metrics"
	"github.com/tomltr/trendie-backend/internal/repository/postgres"
	"github.com/tomltr/trendie-backend/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	userSvc := services.NewUserService(repos.Users)
	postSvc := services.NewPostService(repos.Posts)
	sessions := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Error("templates", "err", err)
		os.Exit(1)
	}

	metrics.Init()
	r := api.NewRouter(userSvc, postSvc, sessions, renderer)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
