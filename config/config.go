package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// defaultScanList is the fixed set of well-known volatile / popular tickers
// scanned for pre-market movement.
var defaultScanList = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "AMD",
	"NFLX", "INTC", "BA", "DIS", "PLTR", "SOFI", "RIVN", "LCID",
	"NIO", "COIN", "MARA", "RIOT", "SQ", "SNAP", "UBER", "PYPL",
	"ROKU", "SHOP", "CRWD", "SNOW", "DKNG", "ABNB",
}

// Config holds all application configuration
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Provider ProviderConfig `yaml:"provider"`
	Database DatabaseConfig `yaml:"database"`
	Movers   MoversConfig   `yaml:"movers"`
	Warmer   WarmerConfig   `yaml:"warmer"`

	// Timezone for chart/news display strings; chart points and news items
	// must share it so their time strings can be joined.
	Timezone string `yaml:"timezone"`

	// Production switches the logger to JSON output
	Production bool `yaml:"production"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ListenAddr         string `yaml:"listen_addr"`
	CORSAllowedOrigins string `yaml:"cors_allowed_origins"`
	TimeoutSeconds     int    `yaml:"timeout_seconds"`
}

// ProviderConfig holds upstream financial-data provider configuration
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	Proxy   string `yaml:"proxy"`
}

// DatabaseConfig holds local persistence configuration
type DatabaseConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// MoversConfig holds movers aggregation configuration
type MoversConfig struct {
	ScanList      []string `yaml:"scan_list"`
	SparklineDays int      `yaml:"sparkline_days"`
	WatchlistCap  int      `yaml:"watchlist_cap"`
}

// WarmerConfig holds the snapshot cache warmer configuration
type WarmerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
}

// Load reads config from an optional YAML file, then applies environment
// variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.HTTP.ListenAddr = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.CORSAllowedOrigins = v
	}
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.HTTP.TimeoutSeconds = parsed
		}
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Provider.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DISPLAY_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("WARMER_CRON"); v != "" {
		cfg.Warmer.Cron = v
		cfg.Warmer.Enabled = true
	}
	if v := os.Getenv("PRODUCTION"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Production = parsed
		}
	}

	// Defaults
	if cfg.HTTP.ListenAddr == "" {
		cfg.HTTP.ListenAddr = ":8080"
	}
	if cfg.HTTP.CORSAllowedOrigins == "" {
		cfg.HTTP.CORSAllowedOrigins = "*"
	}
	if cfg.HTTP.TimeoutSeconds == 0 {
		cfg.HTTP.TimeoutSeconds = 60
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/dashboard.db"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "America/New_York"
	}
	if len(cfg.Movers.ScanList) == 0 {
		cfg.Movers.ScanList = append([]string(nil), defaultScanList...)
	}
	if cfg.Movers.SparklineDays == 0 {
		cfg.Movers.SparklineDays = 7
	}
	if cfg.Movers.WatchlistCap == 0 {
		cfg.Movers.WatchlistCap = 50
	}
	if cfg.Warmer.Cron == "" {
		cfg.Warmer.Cron = "0 */5 * * * *"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.Movers.SparklineDays <= 0 {
		return fmt.Errorf("movers.sparkline_days must be positive, got %d", c.Movers.SparklineDays)
	}
	if c.Movers.WatchlistCap <= 0 {
		return fmt.Errorf("movers.watchlist_cap must be positive, got %d", c.Movers.WatchlistCap)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the display timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			ListenAddr:         ":8080",
			CORSAllowedOrigins: "*",
			TimeoutSeconds:     60,
		},
		Database: DatabaseConfig{
			SQLitePath: "",
		},
		Movers: MoversConfig{
			ScanList:      append([]string(nil), defaultScanList...),
			SparklineDays: 7,
			WatchlistCap:  50,
		},
		Warmer: WarmerConfig{
			Enabled: false,
			Cron:    "0 */5 * * * *",
		},
		Timezone: "UTC",
	}
}
