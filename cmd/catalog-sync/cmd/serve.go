package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/soundline/catalog-sync/internal/api/handlers"
	"github.com/soundline/catalog-sync/internal/api/middleware"
	"github.com/soundline/catalog-sync/internal/config"
	"github.com/soundline/catalog-sync/internal/engine"
	"github.com/soundline/catalog-sync/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()
	a, err := buildApp(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := engine.NewScheduler(a.engine, a.cache,
		cfg.Dirs.Inbox, cfg.Dirs.Processed, cfg.Dirs.Errored,
		cfg.Schedule.InboxScanInterval, cfg.Schedule.CacheRefreshInterval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Recovery(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(a.store)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("Catalog Sync API", Version))
	handlers.RegisterSyncRoutes(api, handlers.NewSyncHandler(a.engine))
	handlers.RegisterCacheRoutes(api, handlers.NewCacheHandler(a.cache))
	if a.store != nil {
		handlers.RegisterRunRoutes(api, handlers.NewRunsHandler(a.store))
	} else {
		log.Info("no database configured, run history endpoints disabled")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	// Wait for in-flight scheduled jobs before closing the store.
	<-sched.Stop().Done()

	log.Info("server stopped")
	return nil
}
