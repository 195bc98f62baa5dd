// Package config holds the engine's configuration surface. Values come
// from a YAML file with environment-variable overrides; every knob has a
// working default so a nil config path is fine for library use.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// FillPolicy controls how the aligner treats gaps in a price series.
type FillPolicy string

const (
	FillNone    FillPolicy = "none"         // leave cells explicitly missing
	FillForward FillPolicy = "forward_fill" // carry last adjusted close, up to MaxFillGapDays
	FillFail    FillPolicy = "fail"         // reject alignment when a gap exceeds MaxFillGapDays
)

// DCFConfig carries the default discounted-cash-flow assumptions.
type DCFConfig struct {
	DiscountRate   float64 `yaml:"discount_rate"`
	GrowthRate     float64 `yaml:"growth_rate"`
	TerminalGrowth float64 `yaml:"terminal_growth"`
	HorizonYears   int     `yaml:"horizon_years"`
}

// Config is the full engine configuration.
type Config struct {
	TradingPeriodsPerYear int        `yaml:"trading_periods_per_year"`
	FillPolicy            FillPolicy `yaml:"fill_policy"`
	MaxFillGapDays        int        `yaml:"max_fill_gap_days"`
	RiskFreeRate          float64    `yaml:"risk_free_rate"`

	DCF DCFConfig `yaml:"dcf"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the engine defaults: 252 trading periods, no filling,
// 4% risk-free rate, a 5-year DCF at 9% discount / 2.5% terminal growth.
func Default() *Config {
	return &Config{
		TradingPeriodsPerYear: 252,
		FillPolicy:            FillNone,
		MaxFillGapDays:        5,
		RiskFreeRate:          0.04,
		DCF: DCFConfig{
			DiscountRate:   0.09,
			GrowthRate:     0.05,
			TerminalGrowth: 0.025,
			HorizonYears:   5,
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	// .env is optional; missing file is not an error.
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ANALYTICS_RISK_FREE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RiskFreeRate = f
		}
	}
	if v := os.Getenv("ANALYTICS_TRADING_PERIODS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TradingPeriodsPerYear = n
		}
	}
	if v := os.Getenv("ANALYTICS_FILL_POLICY"); v != "" {
		cfg.FillPolicy = FillPolicy(v)
	}
	if v := os.Getenv("ANALYTICS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.TradingPeriodsPerYear <= 0 {
		return fmt.Errorf("trading_periods_per_year must be positive, got %d", c.TradingPeriodsPerYear)
	}
	switch c.FillPolicy {
	case FillNone, FillForward, FillFail:
	default:
		return fmt.Errorf("unknown fill_policy %q", c.FillPolicy)
	}
	if c.MaxFillGapDays < 0 {
		return fmt.Errorf("max_fill_gap_days must not be negative, got %d", c.MaxFillGapDays)
	}
	if c.DCF.HorizonYears <= 0 {
		return fmt.Errorf("dcf horizon_years must be positive, got %d", c.DCF.HorizonYears)
	}
	return nil
}
