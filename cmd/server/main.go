// Package main runs the market dashboard HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/NiranEC77/helens-dashboard/charts"
	"github.com/NiranEC77/helens-dashboard/config"
	"github.com/NiranEC77/helens-dashboard/internal/api"
	"github.com/NiranEC77/helens-dashboard/internal/app"
	"github.com/NiranEC77/helens-dashboard/movers"
	"github.com/NiranEC77/helens-dashboard/observability"
	"github.com/NiranEC77/helens-dashboard/repository"
	"github.com/NiranEC77/helens-dashboard/scheduler"
	"github.com/NiranEC77/helens-dashboard/services"
	"github.com/NiranEC77/helens-dashboard/watchlist"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		observability.InitLogger(false)
		observability.Fatal("failed to load configuration", "error", err)
	}

	observability.InitLogger(cfg.Production)
	observability.InitMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := repository.New(cfg.Database.SQLitePath)
	if err != nil {
		observability.Fatal("failed to open database", "error", err)
	}
	defer repo.Close()

	provider := services.NewYahooService(cfg.Provider.BaseURL, cfg.Provider.Proxy)

	mapper := movers.NewMapper(provider, cfg.Movers.SparklineDays)
	moversService := movers.NewService(provider, mapper, repo, cfg.Movers.ScanList, cfg.Movers.WatchlistCap)
	chartBuilder := charts.NewBuilder(provider, cfg.Location())
	watchlistStore := watchlist.NewStore(ctx, repo)

	application := app.New(cfg, moversService, chartBuilder, watchlistStore, repo)

	var warmer *scheduler.Scheduler
	if cfg.Warmer.Enabled {
		warmer = scheduler.New(ctx, func(ctx context.Context) {
			moversService.TopMovers(ctx)
		})
		if err := warmer.Register(cfg.Warmer.Cron); err != nil {
			observability.Fatal("failed to register snapshot warmer", "error", err)
		}
		warmer.Start()
		defer warmer.Stop()
	}

	handler := api.NewHandler(application, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
	}

	go func() {
		observability.Info("starting dashboard server", "addr", cfg.HTTP.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down dashboard server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Fatal("server forced to shutdown", "error", err)
	}

	application.Shutdown(shutdownCtx)
	observability.Info("dashboard server stopped")
}
