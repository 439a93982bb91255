package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// Config holds all application configuration, including the static
// holdings list. Loaded once at startup; read-only afterwards.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	Dashboard struct {
		DisplayCurrency string `yaml:"display_currency"`
		DefaultPeriod   string `yaml:"default_period"`
		RefreshCron     string `yaml:"refresh_cron"`
		ForecastHorizon int    `yaml:"forecast_horizon_days"`
	} `yaml:"dashboard"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy    string          `yaml:"proxy"`
	Holdings []model.Holding `yaml:"holdings"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Dashboard.RefreshCron = v
	}
	if v := os.Getenv("FORECAST_HORIZON_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Dashboard.ForecastHorizon = n
		}
	}

	// Defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8050"
	}
	if cfg.Dashboard.DisplayCurrency == "" {
		cfg.Dashboard.DisplayCurrency = "EUR"
	}
	if cfg.Dashboard.DefaultPeriod == "" {
		cfg.Dashboard.DefaultPeriod = "1y"
	}
	if cfg.Dashboard.RefreshCron == "" {
		cfg.Dashboard.RefreshCron = "*/10 * * * * *"
	}
	if cfg.Dashboard.ForecastHorizon == 0 {
		cfg.Dashboard.ForecastHorizon = 30
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if _, err := model.ParsePeriod(c.Dashboard.DefaultPeriod); err != nil {
		return fmt.Errorf("dashboard.default_period: %w", err)
	}
	if c.Dashboard.ForecastHorizon < 0 {
		return fmt.Errorf("dashboard.forecast_horizon_days must not be negative")
	}
	if len(c.Holdings) == 0 {
		return fmt.Errorf("at least one holding is required")
	}
	seen := make(map[string]bool, len(c.Holdings))
	for i, h := range c.Holdings {
		if h.Symbol == "" {
			return fmt.Errorf("holdings[%d]: symbol is required", i)
		}
		if seen[h.Symbol] {
			return fmt.Errorf("holdings[%d]: duplicate symbol %q", i, h.Symbol)
		}
		seen[h.Symbol] = true
		if h.Kind != model.AssetCrypto && h.Kind != model.AssetStock {
			return fmt.Errorf("holdings[%d]: kind must be crypto or stock, got %q", i, h.Kind)
		}
		if h.Quantity < 0 {
			return fmt.Errorf("holdings[%d]: quantity must not be negative", i)
		}
		if h.Invested < 0 {
			return fmt.Errorf("holdings[%d]: invested must not be negative", i)
		}
	}
	return nil
}

// Symbols returns the configured holding symbols in order.
func (c *Config) Symbols() []string {
	out := make([]string, len(c.Holdings))
	for i, h := range c.Holdings {
		out[i] = h.Symbol
	}
	return out
}
