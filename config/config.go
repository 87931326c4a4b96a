// Package config holds the process configuration: a YAML/JSON file for
// everything tunable, with credentials overlaid from the environment.
// The resulting Config is built once at startup and passed to every
// component's constructor; nothing reads ambient state mid-run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete agent configuration.
type Config struct {
	Broker  BrokerConfig  `json:"broker" yaml:"broker"`
	Notify  NotifyConfig  `json:"notify" yaml:"notify"`
	Risk    RiskConfig    `json:"risk" yaml:"risk"`
	Trading TradingConfig `json:"trading" yaml:"trading"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// BrokerConfig carries the broker endpoint and credentials. ClientID and
// AccessToken come from the environment, never from the file.
type BrokerConfig struct {
	BaseURL     string `json:"base_url" yaml:"base_url"`
	ClientID    string `json:"-" yaml:"-"`
	AccessToken string `json:"-" yaml:"-"`
}

// NotifyConfig configures the SMTP alert sink. Address doubles as sender
// and recipient; Password comes from the environment.
type NotifyConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Address  string `json:"-" yaml:"-"`
	Password string `json:"-" yaml:"-"`
}

// RiskConfig carries the circuit-breaker and sizing parameters.
type RiskConfig struct {
	MaxDailyLossPct      float64 `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"`
	PositionSizeFraction float64 `json:"position_size_fraction" yaml:"position_size_fraction"`
	PortfolioValue       float64 `json:"portfolio_value" yaml:"portfolio_value"`
}

// TradingConfig carries the symbol universe and session parameters.
type TradingConfig struct {
	Universe        []string `json:"universe" yaml:"universe"`
	SymbolsPerCycle int      `json:"symbols_per_cycle" yaml:"symbols_per_cycle"`
	Timezone        string   `json:"timezone" yaml:"timezone"`
}

type CacheConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

type LogConfig struct {
	Path string `json:"path" yaml:"path"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, picking the format from the file
// extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks everything except credentials, which are only required
// when the trading loop actually starts.
func (c *Config) Validate() error {
	if c.Broker.BaseURL == "" {
		return fmt.Errorf("broker.base_url is required")
	}
	if c.Risk.MaxDailyLossPct <= 0 || c.Risk.MaxDailyLossPct >= 1 {
		return fmt.Errorf("risk.max_daily_loss_pct must be in (0, 1)")
	}
	if c.Risk.PositionSizeFraction <= 0 || c.Risk.PositionSizeFraction > 1 {
		return fmt.Errorf("risk.position_size_fraction must be in (0, 1]")
	}
	if c.Risk.PortfolioValue <= 0 {
		return fmt.Errorf("risk.portfolio_value must be positive")
	}
	if len(c.Trading.Universe) == 0 {
		return fmt.Errorf("trading.universe must not be empty")
	}
	if c.Trading.SymbolsPerCycle <= 0 || c.Trading.SymbolsPerCycle > len(c.Trading.Universe) {
		return fmt.Errorf("trading.symbols_per_cycle must be in [1, %d]", len(c.Trading.Universe))
	}
	if _, err := time.LoadLocation(c.Trading.Timezone); err != nil {
		return fmt.Errorf("trading.timezone: %w", err)
	}
	if c.Cache.Dir == "" {
		return fmt.Errorf("cache.dir is required")
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if c.Log.Path == "" {
		return fmt.Errorf("log.path is required")
	}
	return nil
}

// Default returns a configuration with the stock universe and limits the
// agent ships with.
func Default() *Config {
	return &Config{
		Broker: BrokerConfig{
			BaseURL: "https://api.dhan.co",
		},
		Notify: NotifyConfig{
			Host: "smtp.gmail.com",
			Port: 465,
		},
		Risk: RiskConfig{
			MaxDailyLossPct:      0.02,
			PositionSizeFraction: 0.20,
			PortfolioValue:       1000000,
		},
		Trading: TradingConfig{
			Universe: []string{
				"RELIANCE", "TCS", "HDFCBANK", "INFY", "ICICIBANK",
				"HINDUNILVR", "ITC", "SBIN", "BHARTIARTL", "KOTAKBANK",
				"LT", "AXISBANK", "ASIANPAINT", "MARUTI", "SUNPHARMA",
				"TITAN", "ULTRACEMCO", "WIPRO", "NESTLEIND", "BAJFINANCE",
				"HCLTECH", "POWERGRID", "NTPC", "TATAMOTORS", "TATASTEEL",
			},
			SymbolsPerCycle: 5,
			Timezone:        "Asia/Kolkata",
		},
		Cache: CacheConfig{
			Dir: "./data/cache",
		},
		Journal: JournalConfig{
			DBPath: "./data/trades.db",
		},
		Log: LogConfig{
			Path: "./nsebot.log",
		},
	}
}
