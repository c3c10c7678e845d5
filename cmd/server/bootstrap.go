package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"finvasia-agent/internal/catalog"
	"finvasia-agent/internal/creds"
	"finvasia-agent/internal/interfaces"
	"finvasia-agent/internal/logger"
	"finvasia-agent/internal/noren"
	"finvasia-agent/internal/ops"
	"finvasia-agent/internal/ops/opsobs"
	"finvasia-agent/internal/search"
	"finvasia-agent/internal/session"
	"finvasia-agent/internal/store"
	"finvasia-agent/internal/trace"
)

// initializeSystem loads the environment and initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeCatalog builds the catalog and loads the snapshot if present.
// A missing or corrupt snapshot is not fatal: searches degrade to the
// remote API until the next successful refresh.
func initializeCatalog(ctx context.Context, cfg *store.Config) *catalog.Catalog {
	cat := catalog.New()
	if err := cat.Load(cfg.Instruments.SnapshotPath); err != nil {
		logger.Warn(ctx, "Instrument snapshot unavailable, searches fall back to remote",
			"path", cfg.Instruments.SnapshotPath, "error", err)
		return cat
	}
	logger.Info(ctx, "Instrument snapshot loaded", "records", cat.Len())
	return cat
}

// initializeBroker wires the credential store, request client and session
// manager.
func initializeBroker(ctx context.Context, cfg *store.Config) (creds.Credentials, *noren.Client, *session.Manager, error) {
	c, err := creds.FromEnv()
	if err != nil {
		logger.ErrorWithErr(ctx, "Credential store incomplete", err)
		return creds.Credentials{}, nil, nil, err
	}

	client := noren.NewClient(
		noren.WithBaseURL(cfg.Broker.BaseURL),
		noren.WithTimeout(cfg.BrokerTimeout()),
	)

	mgr := session.NewManager(c, client,
		session.WithTTL(cfg.SessionTTL()),
		session.WithAppVersion(cfg.Session.AppVersion),
	)

	return c, client, mgr, nil
}

// initializeOperations builds the operations service wrapped with
// observability middleware.
func initializeOperations(c creds.Credentials, mgr *session.Manager, client *noren.Client) interfaces.Operations {
	return opsobs.Wrap(ops.NewService(c.UserID, mgr, client))
}

// initializeSearch builds the two-stage search engine.
func initializeSearch(c creds.Credentials, cfg *store.Config, cat *catalog.Catalog, mgr *session.Manager, client *noren.Client) *search.Engine {
	return search.New(cat, mgr, client, search.Params{
		UserID:              c.UserID,
		DefaultExchange:     cfg.Search.DefaultExchange,
		DerivativesExchange: cfg.Search.DerivativesExchange,
		MaxLimit:            cfg.Search.MaxLimit,
	})
}
