package config

import (
	"log"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	BaseCurrency string `env:"BASE_CURRENCY" envDefault:"GBP"`
	DataDir      string `env:"DATA_DIR" envDefault:"data"`
	API          API
}

type API struct {
	Debug         bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout       time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	MarketDataURL string        `env:"MARKET_DATA_URL" envDefault:"https://query1.finance.yahoo.com"`
	FXRateURL     string        `env:"FX_RATE_URL" envDefault:"https://api.exchangerate.host"`
}

// RateCacheFile returns the path of the persisted currency rate cache.
func (c *Config) RateCacheFile() string {
	return filepath.Join(c.DataDir, "currency_cache.json")
}

// PriceCacheFile returns the path of the persisted per-asset price table.
func (c *Config) PriceCacheFile() string {
	return filepath.Join(c.DataDir, "price_cache.csv")
}

// PortfolioFile returns the default path of the portfolio definition.
func (c *Config) PortfolioFile() string {
	return filepath.Join(c.DataDir, "portfolio.json")
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
