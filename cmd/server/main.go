package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/SetupAnalyzer/internal/analyze"
	"github.com/Alias1177/SetupAnalyzer/internal/api/binance"
	"github.com/Alias1177/SetupAnalyzer/internal/config"
	"github.com/Alias1177/SetupAnalyzer/internal/notify"
	"github.com/Alias1177/SetupAnalyzer/internal/transport/httpserver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	setupLogging(cfg.LogLevel)
	printConfig(cfg)

	// 3. Market data client
	client := binance.NewClient(binance.ClientOptions{
		BaseURL:        cfg.BinanceBaseURL,
		RequestTimeout: cfg.RequestTimeout,
	})

	// 4. Optional Telegram alerts
	var notifier analyze.Notifier
	var telegram *notify.TelegramNotifier
	if cfg.AlertsEnabled() {
		telegram, err = notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Error().Err(err).Msg("Telegram alerts disabled")
		} else {
			notifier = telegram
		}
	}

	// 5. Pipeline and HTTP API
	svc := analyze.NewService(client, notifier, analyze.OptionsFromConfig(cfg))

	gin.SetMode(gin.ReleaseMode)
	router := httpserver.NewHandler(svc, cfg).SetupRoutes()

	if err := httpserver.Serve(ctx, cfg.HTTPAddr, router); err != nil {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}

	if telegram != nil {
		telegram.Wait()
	}
	log.Info().Msg("Stopped")
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	// Set log level from config
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Str("Addr", cfg.HTTPAddr).
		Str("BinanceBaseURL", cfg.BinanceBaseURL).
		Str("DefaultSymbol", cfg.DefaultSymbol).
		Str("DefaultInterval", cfg.DefaultInterval).
		Int("CandleLimit", cfg.CandleLimit).
		Int("RSIPeriod", cfg.RSIPeriod).
		Int("EMAPeriod", cfg.EMAPeriod).
		Dur("RequestTimeout", cfg.RequestTimeout).
		Str("ResponseShape", cfg.ResponseShape).
		Bool("StrictMode", cfg.StrictMode).
		Bool("FixedParams", cfg.FixedParams).
		Float64("RateLimitRPS", cfg.RateLimitRPS).
		Bool("Alerts", cfg.AlertsEnabled()).
		Bool("BinanceKeyLoaded", cfg.BinanceAPIKey != "").
		Msg("Configuration loaded")
}
