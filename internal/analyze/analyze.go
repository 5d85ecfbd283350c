package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/SetupAnalyzer/internal/api/binance"
	"github.com/Alias1177/SetupAnalyzer/internal/calculate"
	"github.com/Alias1177/SetupAnalyzer/internal/config"
	"github.com/Alias1177/SetupAnalyzer/internal/model"
	httpClient "github.com/Alias1177/SetupAnalyzer/internal/platform/http"
)

// CandleFetcher loads the most recent candles for a symbol and interval.
type CandleFetcher interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
}

// Notifier receives buy and sell analyses. Implementations must not block.
type Notifier interface {
	Notify(a model.Analysis)
}

// Request selects the market to analyze
type Request struct {
	Symbol   string
	Interval string
}

// Options controls the pipeline
type Options struct {
	Shape     string
	Strict    bool
	Limit     int
	RSIPeriod int
	EMAPeriod int
}

// OptionsFromConfig maps the process configuration onto pipeline options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Shape:     cfg.ResponseShape,
		Strict:    cfg.StrictMode,
		Limit:     cfg.CandleLimit,
		RSIPeriod: cfg.RSIPeriod,
		EMAPeriod: cfg.EMAPeriod,
	}
}

// Service runs fetch -> indicators -> classification -> payload for one request.
type Service struct {
	fetcher  CandleFetcher
	notifier Notifier
	opts     Options
	logger   zerolog.Logger
}

// NewService creates the analysis pipeline. notifier may be nil.
func NewService(fetcher CandleFetcher, notifier Notifier, opts Options) *Service {
	if opts.Shape == "" {
		opts.Shape = config.ShapeMinimal
	}
	if opts.Limit <= 0 {
		opts.Limit = binance.DefaultLimit
	}
	if opts.RSIPeriod <= 0 {
		opts.RSIPeriod = 14
	}
	if opts.EMAPeriod <= 0 {
		opts.EMAPeriod = 20
	}

	return &Service{
		fetcher:  fetcher,
		notifier: notifier,
		opts:     opts,
		logger:   log.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze computes the setup for the latest candle.
//
// In defensive mode an unusable upstream answer yields the no-data payload and a
// too-short series yields the failure payload, both without error. In strict
// mode those conditions are returned as errors.
func (s *Service) Analyze(ctx context.Context, req Request) (Payload, error) {
	symbol := strings.ToUpper(req.Symbol)
	interval := req.Interval

	candles, err := s.fetcher.GetKlines(ctx, symbol, interval, s.opts.Limit)
	if err != nil {
		if !s.opts.Strict && IsUpstreamUnavailable(err) {
			s.logger.Warn().Err(err).Str("symbol", symbol).Str("interval", interval).Msg("No usable market data")
			return NoDataPayload(s.opts.Shape, symbol, interval), nil
		}
		return nil, fmt.Errorf("fetching candles for %s %s: %w", symbol, interval, err)
	}

	analysis, err := s.evaluate(symbol, interval, candles)
	if err != nil {
		if !s.opts.Strict && errors.Is(err, calculate.ErrInsufficientHistory) {
			s.logger.Warn().Err(err).Str("symbol", symbol).Str("interval", interval).Msg("Setup analysis failed")
			return FailurePayload(s.opts.Shape, symbol, interval), nil
		}
		return nil, err
	}

	s.logger.Info().
		Str("symbol", symbol).
		Str("interval", interval).
		Float64("close", analysis.Close).
		Float64("rsi", analysis.RSI).
		Float64("ema", analysis.EMA).
		Str("signal", string(analysis.Signal)).
		Msg("Setup analyzed")

	if analysis.Signal != model.SignalNoTrade && s.notifier != nil {
		s.notifier.Notify(analysis)
	}

	return BuildPayload(s.opts.Shape, analysis), nil
}

func (s *Service) evaluate(symbol, interval string, candles []model.Candle) (model.Analysis, error) {
	series, err := calculate.Compute(candles, s.opts.RSIPeriod, s.opts.EMAPeriod)
	if err != nil {
		return model.Analysis{}, fmt.Errorf("computing indicators for %s %s: %w", symbol, interval, err)
	}

	rsi, ema := series.Last()
	closePrice := candles[len(candles)-1].Close

	return model.Analysis{
		Symbol:   symbol,
		Interval: interval,
		Close:    closePrice,
		RSI:      rsi,
		EMA:      ema,
		Signal:   Classify(closePrice, rsi, ema),
	}, nil
}

// IsUpstreamUnavailable reports whether err means the exchange returned no
// usable data: a non-2xx status or an empty or malformed body. Unknown symbols
// and intervals surface this way as well.
func IsUpstreamUnavailable(err error) bool {
	if errors.Is(err, binance.ErrNoData) {
		return true
	}
	var statusErr *httpClient.HTTPStatusError
	return errors.As(err, &statusErr)
}
