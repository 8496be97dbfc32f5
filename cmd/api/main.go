package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhub/api/internal/auth"
	"github.com/taskhub/api/internal/config"
	httpx "github.com/taskhub/api/internal/http"
	"github.com/taskhub/api/internal/observability"
	"github.com/taskhub/api/internal/repo/memory"
	"github.com/taskhub/api/internal/repo/postgres"
	"github.com/taskhub/api/internal/tasks"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	// tracing is opt-in; without an endpoint the service runs untraced
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "taskhub-api", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	// store selection: postgres when a DSN is configured, in-memory otherwise
	var (
		userStore auth.UserStore
		taskStore tasks.TaskStore
		pool      *pgxpool.Pool
	)

	if cfg.DBURL != "" {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()

		var err error
		pool, err = pgxpool.New(ctx, cfg.DBURL)

		if err != nil {
			log.Error("failed to create pgx pool", "err", err)
			os.Exit(1)
		}

		defer pool.Close()

		userStore = postgres.NewUsersRepo(pool)
		taskStore = postgres.NewTasksRepo(pool)
	} else {
		userStore = memory.NewUsersRepo()
		taskStore = memory.NewTasksRepo()
	}

	tokenManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := auth.NewService(userStore, tokenManager)
	taskSvc := tasks.NewService(taskStore)

	router := httpx.NewRouter(log, cfg, authSvc, taskSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		storage := "memory"
		if pool != nil {
			storage = "postgres"
		}

		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", storage)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
