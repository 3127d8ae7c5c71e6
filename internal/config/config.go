// Package config loads the bot's YAML configuration and applies environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the trading bot.
type Config struct {
	Alpaca        Alpaca        `yaml:"alpaca"`
	Storage       Storage       `yaml:"storage"`
	Backtest      Backtest      `yaml:"backtest"`
	Trading       Trading       `yaml:"trading"`
	Notifications Notifications `yaml:"notifications"`
	Logging       Logging       `yaml:"logging"`
	Server        Server        `yaml:"server"`
}

// Alpaca holds credentials and endpoints for the Alpaca APIs.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
	DataURL   string `yaml:"data_url"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Backtest holds default simulation parameters, each overridable from the
// command line.
type Backtest struct {
	Symbols         []string `yaml:"symbols"`
	Benchmark       string   `yaml:"benchmark"`
	StartDate       string   `yaml:"start_date"`
	EndDate         string   `yaml:"end_date"`
	StartingCash    float64  `yaml:"starting_cash"`
	Strategy        string   `yaml:"strategy"`
	ShortWindow     int      `yaml:"short_window"`
	LongWindow      int      `yaml:"long_window"`
	CarryForward    bool     `yaml:"carry_forward"`
	HistoryCacheDir string   `yaml:"history_cache_dir"`
}

// Trading defines live execution parameters.
type Trading struct {
	DryRun      bool   `yaml:"dry_run"`
	Paper       bool   `yaml:"paper"`
	TimeInForce string `yaml:"time_in_force"`
}

// Notifications configures outbound messaging.
type Notifications struct {
	DiscordWebhookURL string `yaml:"discord_webhook_url"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Server holds the run-archive API listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, applies defaults, and then applies environment variable
// overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

// Default returns a Config with defaults applied and environment overrides
// taken, for running without a config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Alpaca.BaseURL == "" {
		cfg.Alpaca.BaseURL = "https://paper-api.alpaca.markets"
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/runs.db"
	}
	if cfg.Backtest.Benchmark == "" {
		cfg.Backtest.Benchmark = "SPY"
	}
	if cfg.Backtest.StartingCash == 0 {
		cfg.Backtest.StartingCash = 10000
	}
	if cfg.Backtest.Strategy == "" {
		cfg.Backtest.Strategy = "sma-cross"
	}
	if cfg.Backtest.ShortWindow == 0 {
		cfg.Backtest.ShortWindow = 20
	}
	if cfg.Backtest.LongWindow == 0 {
		cfg.Backtest.LongWindow = 50
	}
	if cfg.Trading.TimeInForce == "" {
		cfg.Trading.TimeInForce = "day"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Alpaca.BaseURL = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Notifications.DiscordWebhookURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("BACKTEST_SYMBOLS"); v != "" {
		cfg.Backtest.Symbols = splitSymbols(v)
	}

	// Standard Alpaca env vars (highest priority — canonical names used by
	// the SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}

// Validate checks the fields required for talking to Alpaca. Backtests on a
// cached data directory do not call it.
func (c *Config) Validate() error {
	if c.Alpaca.APIKey == "" {
		return fmt.Errorf("alpaca api_key is required (set APCA_API_KEY_ID)")
	}
	if c.Alpaca.APISecret == "" {
		return fmt.Errorf("alpaca api_secret is required (set APCA_API_SECRET_KEY)")
	}
	return nil
}

// splitSymbols parses a comma-separated, possibly padded, symbol list.
func splitSymbols(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
