package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/SetupAnalyzer/internal/analyze"
	"github.com/Alias1177/SetupAnalyzer/internal/api/binance"
	"github.com/Alias1177/SetupAnalyzer/internal/config"
)

// analyzer runs the /analyze pipeline once and prints the payload to stdout.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	symbol := flag.String("symbol", cfg.DefaultSymbol, "trading pair, e.g. BTCUSDT")
	interval := flag.String("interval", cfg.DefaultInterval, "kline interval, e.g. 5m")
	shape := flag.String("shape", cfg.ResponseShape, "response shape: minimal or extended")
	strict := flag.Bool("strict", cfg.StrictMode, "fail instead of returning a no-data payload")
	flag.Parse()

	cfg.ResponseShape = *shape
	cfg.StrictMode = *strict
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid flags")
	}

	setupLogging(cfg.LogLevel)

	client := binance.NewClient(binance.ClientOptions{
		BaseURL:        cfg.BinanceBaseURL,
		RequestTimeout: cfg.RequestTimeout,
	})
	svc := analyze.NewService(client, nil, analyze.OptionsFromConfig(cfg))

	payload, err := svc.Analyze(ctx, analyze.Request{Symbol: *symbol, Interval: *interval})
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		log.Fatal().Err(err).Msg("Writing payload")
	}
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
