// Command refresh rebuilds the instrument snapshot once and exits. It is
// meant to be driven by an external scheduler (cron) when the long-running
// server's internal ticker is not wanted.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"finvasia-agent/internal/catalog"
	"finvasia-agent/internal/logger"
	"finvasia-agent/internal/store"
)

func main() {
	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		log.Fatal(err)
	}

	cat := catalog.New()
	refresher := catalog.NewRefresher(cfg.Instruments.DumpURLs, cfg.Instruments.SnapshotPath, cat)
	if err := refresher.Refresh(ctx); err != nil {
		log.Fatal(err)
	}

	logger.Info(ctx, "Instrument snapshot written",
		"path", cfg.Instruments.SnapshotPath, "records", cat.Len())
}
