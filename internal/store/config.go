package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// STATIC serves configured prices, HTTP hits a quote API, KITE uses
	// the Zerodha Kite connect API, SCRAPE falls back to public quote
	// pages.
	PriceSource string `yaml:"price_source"`
	Exchange    string `yaml:"exchange"`

	Quote struct {
		TimeoutSeconds  int                `yaml:"timeout_seconds"`
		CacheTTLSeconds int                `yaml:"cache_ttl_seconds"`
		BaseURL         string             `yaml:"base_url"`
		APIKeyEnv       string             `yaml:"api_key_env"`
		Static          map[string]float64 `yaml:"static"`
	} `yaml:"quote"`

	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`

	Audit struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"audit"`

	Demo struct {
		UserID      string `yaml:"user_id"`
		PollSeconds int    `yaml:"poll_seconds"`
	} `yaml:"demo"`
}

func (c *Config) Validate() error {
	switch c.PriceSource {
	case "STATIC", "HTTP", "KITE", "SCRAPE":
	default:
		return fmt.Errorf("invalid price_source '%s': must be 'STATIC', 'HTTP', 'KITE' or 'SCRAPE'", c.PriceSource)
	}
	if c.PriceSource == "HTTP" && c.Quote.BaseURL == "" {
		return fmt.Errorf("quote.base_url is required when price_source is HTTP")
	}
	if c.Quote.TimeoutSeconds <= 0 {
		return fmt.Errorf("quote.timeout_seconds must be positive, got %d", c.Quote.TimeoutSeconds)
	}
	return nil
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

	if c.PriceSource == "" {
		c.PriceSource = "STATIC"
	}
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.Quote.TimeoutSeconds == 0 {
		c.Quote.TimeoutSeconds = 10
	}
	if c.Quote.CacheTTLSeconds == 0 {
		c.Quote.CacheTTLSeconds = 300
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "exports"
	}
	if c.Audit.Dir == "" {
		c.Audit.Dir = "logs"
	}
	if c.Demo.PollSeconds == 0 {
		c.Demo.PollSeconds = 30
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
