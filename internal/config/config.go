package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime knobs. Values come from the environment, with an
// optional .env file for local development.
type Config struct {
	Server struct {
		Port              string   `envconfig:"PORT" default:"8080"`
		RequestTimeoutSec int      `envconfig:"REQUEST_TIMEOUT_SEC" default:"10"`
		AllowedOrigins    []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Model struct {
		HistoricalDays  int    `envconfig:"HISTORICAL_DAYS" default:"30"`
		PredictionDays  int    `envconfig:"PREDICTION_DAYS" default:"5"`
		LookbackMonths  int    `envconfig:"LOOKBACK_MONTHS" default:"3"`
		DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"USD"`
	}

	Market struct {
		Provider string `envconfig:"MARKET_PROVIDER" default:"yahoo"`
	}

	Yahoo struct {
		BaseURL               string `envconfig:"YAHOO_BASE_URL" default:"https://query1.finance.yahoo.com"`
		MaxRequestsPerMinute  int    `envconfig:"YAHOO_MAX_RPM" default:"0"`
		Burst                 int    `envconfig:"YAHOO_BURST" default:"1"`
		MinRequestIntervalSec int    `envconfig:"YAHOO_MIN_INTERVAL_SEC" default:"0"`
	}

	AlphaVantage struct {
		APIKey                string `envconfig:"ALPHAVANTAGE_API_KEY"`
		BaseURL               string `envconfig:"ALPHAVANTAGE_BASE_URL" default:"https://www.alphavantage.co"`
		MaxRequestsPerMinute  int    `envconfig:"ALPHAVANTAGE_MAX_RPM" default:"5"`
		Burst                 int    `envconfig:"ALPHAVANTAGE_BURST" default:"1"`
		MinRequestIntervalSec int    `envconfig:"ALPHAVANTAGE_MIN_INTERVAL_SEC" default:"0"`
	}
}

// Load reads configuration from the environment. A .env file is honored when
// present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Market.Provider {
	case "yahoo":
	case "alphavantage":
		if c.AlphaVantage.APIKey == "" {
			return fmt.Errorf("ALPHAVANTAGE_API_KEY is required when MARKET_PROVIDER=alphavantage")
		}
	default:
		return fmt.Errorf("unknown MARKET_PROVIDER %q", c.Market.Provider)
	}
	if c.Model.HistoricalDays < 1 {
		return fmt.Errorf("HISTORICAL_DAYS must be positive")
	}
	if c.Model.PredictionDays < 1 {
		return fmt.Errorf("PREDICTION_DAYS must be positive")
	}
	if c.Model.LookbackMonths < 1 {
		return fmt.Errorf("LOOKBACK_MONTHS must be positive")
	}
	if c.Server.RequestTimeoutSec < 1 {
		return fmt.Errorf("REQUEST_TIMEOUT_SEC must be positive")
	}
	return nil
}
