package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Tradeflow TradeflowConfig `yaml:"tradeflow"`
	Trading   TradingConfig   `yaml:"trading"`
	Stream    StreamConfig    `yaml:"stream"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type TradeflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type TradingConfig struct {
	BaseURL        string               `yaml:"base_url"`
	Timeout        time.Duration        `yaml:"timeout"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type StreamConfig struct {
	URL         string   `yaml:"url"`
	Symbols     []string `yaml:"symbols"`
	EventBuffer int      `yaml:"event_buffer"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

const (
	// DefaultBaseURL is the Binance spot testnet REST endpoint. Every
	// order placed against it settles in paper money.
	DefaultBaseURL = "https://testnet.binance.vision"
	// DefaultStreamURL is the matching public websocket host.
	DefaultStreamURL = "wss://stream.testnet.binance.vision"
)

// LoadConfig reads the YAML configuration file, fills in defaults and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Trading.BaseURL == "" {
		c.Trading.BaseURL = DefaultBaseURL
	}
	if c.Trading.Timeout == 0 {
		c.Trading.Timeout = 10 * time.Second
	}
	if c.Trading.ConnectionPool.MaxIdleConns == 0 {
		c.Trading.ConnectionPool.MaxIdleConns = 10
	}
	if c.Trading.ConnectionPool.MaxConnsPerHost == 0 {
		c.Trading.ConnectionPool.MaxConnsPerHost = 10
	}
	if c.Trading.ConnectionPool.IdleConnTimeout == 0 {
		c.Trading.ConnectionPool.IdleConnTimeout = 90 * time.Second
	}
	if c.Stream.URL == "" {
		c.Stream.URL = DefaultStreamURL
	}
	if c.Stream.EventBuffer == 0 {
		c.Stream.EventBuffer = 1024
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.Trading.BaseURL, "http://") && !strings.HasPrefix(c.Trading.BaseURL, "https://") {
		return fmt.Errorf("trading.base_url must be an http(s) URL, got '%s'", c.Trading.BaseURL)
	}
	if !strings.HasPrefix(c.Stream.URL, "ws://") && !strings.HasPrefix(c.Stream.URL, "wss://") {
		return fmt.Errorf("stream.url must be a ws(s) URL, got '%s'", c.Stream.URL)
	}
	for _, s := range c.Stream.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("stream.symbols contains an empty symbol")
		}
	}
	return nil
}
