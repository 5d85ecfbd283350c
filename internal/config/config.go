package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Response shapes supported by /analyze
const (
	ShapeMinimal  = "minimal"
	ShapeExtended = "extended"
)

// Config holds all application configuration
type Config struct {
	// Binance credentials are loaded for completeness only, no request path uses them.
	BinanceAPIKey    string `env:"BINANCE_API_KEY"`
	BinanceSecretKey string `env:"BINANCE_SECRET_KEY"`
	BinanceBaseURL   string `env:"BINANCE_BASE_URL" envDefault:"https://api.binance.com"`

	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8000"`
	DefaultSymbol   string        `env:"DEFAULT_SYMBOL" envDefault:"BTCUSDT"`
	DefaultInterval string        `env:"DEFAULT_INTERVAL" envDefault:"5m"`
	CandleLimit     int           `env:"CANDLE_LIMIT" envDefault:"100"`
	RSIPeriod       int           `env:"RSI_PERIOD" envDefault:"14"`
	EMAPeriod       int           `env:"EMA_PERIOD" envDefault:"20"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`

	ResponseShape string `env:"RESPONSE_SHAPE" envDefault:"minimal"`
	StrictMode    bool   `env:"STRICT_MODE" envDefault:"false"`
	FixedParams   bool   `env:"FIXED_PARAMS" envDefault:"false"` // ignore symbol/interval query input

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"0"` // 0 disables the inbound limiter
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads the configuration from the current process environment without
// touching .env files.
func FromEnv() *Config {
	var cfg Config

	cfg.BinanceAPIKey = os.Getenv("BINANCE_API_KEY")
	cfg.BinanceSecretKey = os.Getenv("BINANCE_SECRET_KEY")
	cfg.BinanceBaseURL = getEnvWithDefault("BINANCE_BASE_URL", "https://api.binance.com")
	cfg.HTTPAddr = getEnvWithDefault("HTTP_ADDR", ":8000")
	cfg.DefaultSymbol = strings.ToUpper(getEnvWithDefault("DEFAULT_SYMBOL", "BTCUSDT"))
	cfg.DefaultInterval = getEnvWithDefault("DEFAULT_INTERVAL", "5m")
	cfg.CandleLimit = getEnvIntWithDefault("CANDLE_LIMIT", 100)
	cfg.RSIPeriod = getEnvIntWithDefault("RSI_PERIOD", 14)
	cfg.EMAPeriod = getEnvIntWithDefault("EMA_PERIOD", 20)
	cfg.RequestTimeout = getEnvDurationWithDefault("REQUEST_TIMEOUT", 5*time.Second)
	cfg.ResponseShape = strings.ToLower(getEnvWithDefault("RESPONSE_SHAPE", ShapeMinimal))
	cfg.StrictMode = getEnvBoolWithDefault("STRICT_MODE", false)
	cfg.FixedParams = getEnvBoolWithDefault("FIXED_PARAMS", false)
	cfg.RateLimitRPS = getEnvFloatWithDefault("RATE_LIMIT_RPS", 0)
	cfg.RateLimitBurst = getEnvIntWithDefault("RATE_LIMIT_BURST", 10)
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = int64(getEnvIntWithDefault("TELEGRAM_CHAT_ID", 0))
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")

	return &cfg
}

// Validate checks the values that would make every request fail.
func (c *Config) Validate() error {
	if c.CandleLimit <= 0 {
		return fmt.Errorf("CANDLE_LIMIT must be positive, got %d", c.CandleLimit)
	}
	if c.RSIPeriod <= 0 {
		return fmt.Errorf("RSI_PERIOD must be positive, got %d", c.RSIPeriod)
	}
	if c.EMAPeriod <= 0 {
		return fmt.Errorf("EMA_PERIOD must be positive, got %d", c.EMAPeriod)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.ResponseShape != ShapeMinimal && c.ResponseShape != ShapeExtended {
		return fmt.Errorf("RESPONSE_SHAPE must be %q or %q, got %q", ShapeMinimal, ShapeExtended, c.ResponseShape)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	}
	return nil
}

// AlertsEnabled reports whether Telegram signal alerts are configured.
func (c *Config) AlertsEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getEnvDurationWithDefault accepts Go durations ("5s") and bare seconds ("5").
func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
