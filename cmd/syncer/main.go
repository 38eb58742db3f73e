package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"news_review/internal/app"
	"news_review/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Setup logger
	logger := app.NewLogger(os.Stdout, "info")

	// Load configuration
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger = app.NewLogger(os.Stdout, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	var wg sync.WaitGroup

	if a.Prober != nil {
		// Settle reachability before the scheduler decides on a start-up pass.
		a.Prober.Probe(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Prober.Run(ctx)
		}()
	}

	if cfg.API.Enabled {
		gin.SetMode(gin.ReleaseMode)
		srv := &http.Server{
			Addr:              cfg.API.Addr,
			Handler:           a.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("status api listening", "addr", cfg.API.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status api error", "error", err)
				cancel()
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("status api shutdown", "error", err)
			}
		}()
	}

	logger.Info("starting news review syncer",
		"source", a.Source.Name(),
		"store", cfg.Store.Driver,
		"interval", cfg.Sync.Interval,
		"reachable", a.Network.IsReachable(),
	)

	err = a.Scheduler.Start(ctx)
	cancel()
	wg.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}
