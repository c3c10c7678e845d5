package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Broker struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"broker"`
	Session struct {
		TTLMinutes int    `yaml:"ttl_minutes"`
		AppVersion string `yaml:"app_version"`
	} `yaml:"session"`
	Instruments struct {
		SnapshotPath         string   `yaml:"snapshot_path"`
		DumpURLs             []string `yaml:"dump_urls"`
		RefreshIntervalHours int      `yaml:"refresh_interval_hours"`
		RefreshOnStart       bool     `yaml:"refresh_on_start"`
	} `yaml:"instruments"`
	Search struct {
		DefaultExchange     string `yaml:"default_exchange"`
		DerivativesExchange string `yaml:"derivatives_exchange"`
		MaxLimit            int    `yaml:"max_limit"`
	} `yaml:"search"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Journal struct {
		RetentionDays int `yaml:"retention_days"`
	} `yaml:"journal"`
}

func (c *Config) Validate() error {
	if c.Broker.BaseURL == "" {
		return fmt.Errorf("broker.base_url cannot be empty")
	}
	if c.Session.TTLMinutes <= 0 {
		return fmt.Errorf("session.ttl_minutes must be positive, got %d", c.Session.TTLMinutes)
	}
	if c.Search.MaxLimit <= 0 {
		return fmt.Errorf("search.max_limit must be positive, got %d", c.Search.MaxLimit)
	}
	if c.Instruments.SnapshotPath == "" {
		return fmt.Errorf("instruments.snapshot_path cannot be empty")
	}
	return nil
}

func (c *Config) BrokerTimeout() time.Duration {
	return time.Duration(c.Broker.TimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Broker.BaseURL == "" {
		c.Broker.BaseURL = "https://api.shoonya.com/NorenWClientTP"
	}
	if c.Broker.TimeoutSeconds == 0 {
		c.Broker.TimeoutSeconds = 30
	}
	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 15
	}
	if c.Session.AppVersion == "" {
		c.Session.AppVersion = "go:1.0.0"
	}
	if c.Instruments.SnapshotPath == "" {
		c.Instruments.SnapshotPath = "merged_instruments.json"
	}
	if len(c.Instruments.DumpURLs) == 0 {
		c.Instruments.DumpURLs = []string{
			"https://api.shoonya.com/NFO_symbols.txt.zip",
			"https://api.shoonya.com/NSE_symbols.txt.zip",
			"https://api.shoonya.com/BSE_symbols.txt.zip",
		}
	}
	if c.Instruments.RefreshIntervalHours == 0 {
		c.Instruments.RefreshIntervalHours = 24
	}
	if c.Search.DefaultExchange == "" {
		c.Search.DefaultExchange = "NSE"
	}
	if c.Search.DerivativesExchange == "" {
		c.Search.DerivativesExchange = "NFO"
	}
	if c.Search.MaxLimit == 0 {
		c.Search.MaxLimit = 100
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Journal.RetentionDays == 0 {
		c.Journal.RetentionDays = 30
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
