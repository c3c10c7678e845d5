package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Broker.BaseURL != "https://api.shoonya.com/NorenWClientTP" {
		t.Errorf("base URL default wrong: %s", cfg.Broker.BaseURL)
	}
	if cfg.Session.TTLMinutes != 15 {
		t.Errorf("session TTL default wrong: %d", cfg.Session.TTLMinutes)
	}
	if cfg.Search.MaxLimit != 100 {
		t.Errorf("max limit default wrong: %d", cfg.Search.MaxLimit)
	}
	if len(cfg.Instruments.DumpURLs) != 3 {
		t.Errorf("expected 3 default dump URLs, got %d", len(cfg.Instruments.DumpURLs))
	}
	if cfg.Journal.RetentionDays != 30 {
		t.Errorf("journal retention default wrong: %d", cfg.Journal.RetentionDays)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("server addr default wrong: %s", cfg.Server.Addr)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
broker:
  base_url: "http://localhost:8080"
  timeout_seconds: 5
session:
  ttl_minutes: 5
search:
  max_limit: 25
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Broker.BaseURL != "http://localhost:8080" {
		t.Errorf("override lost: %s", cfg.Broker.BaseURL)
	}
	if got := cfg.BrokerTimeout().Seconds(); got != 5 {
		t.Errorf("timeout helper wrong: %v", got)
	}
	if got := cfg.SessionTTL().Minutes(); got != 5 {
		t.Errorf("ttl helper wrong: %v", got)
	}
	if cfg.Search.MaxLimit != 25 {
		t.Errorf("max limit override lost: %d", cfg.Search.MaxLimit)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "session:\n  ttl_minutes: -1\n")); err == nil {
		t.Error("negative TTL must fail validation")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file must error")
	}
}
