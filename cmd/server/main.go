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

	"finvasia-agent/internal/catalog"
	"finvasia-agent/internal/journal"
	"finvasia-agent/internal/logger"
	"finvasia-agent/internal/server"
	"finvasia-agent/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	must(err)

	cat := initializeCatalog(ctx, cfg)
	c, client, mgr, err := initializeBroker(ctx, cfg)
	must(err)

	operations := initializeOperations(c, mgr, client)
	engine := initializeSearch(c, cfg, cat, mgr, client)
	refresher := catalog.NewRefresher(cfg.Instruments.DumpURLs, cfg.Instruments.SnapshotPath, cat)

	if err := journal.CompressOlder(cfg.Journal.RetentionDays); err != nil {
		logger.Warn(ctx, "Journal compaction failed", "error", err)
	}

	if cfg.Instruments.RefreshOnStart {
		if err := refresher.Refresh(ctx); err != nil {
			logger.Warn(ctx, "Startup instrument refresh failed", "error", err)
		}
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(operations, engine, refresher),
	}

	go func() {
		logger.Info(ctx, "Tool server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "Server stopped", err)
			cancel()
		}
	}()

	refreshTick := time.NewTicker(time.Duration(cfg.Instruments.RefreshIntervalHours) * time.Hour)
	defer refreshTick.Stop()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-refreshTick.C:
			// A refresh failure never disturbs the served catalog.
			if err := refresher.Refresh(ctx); err != nil {
				logger.Warn(ctx, "Scheduled instrument refresh failed", "error", err)
			}
			if err := journal.CompressOlder(cfg.Journal.RetentionDays); err != nil {
				logger.Warn(ctx, "Journal compaction failed", "error", err)
			}
		case <-sigc:
			logger.Info(ctx, "Shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = srv.Shutdown(shutdownCtx)
			_ = trace.Shutdown(shutdownCtx)
			shutdownCancel()
			return
		case <-ctx.Done():
			return
		}
	}
}
