package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Alias1177/SetupAnalyzer/internal/platform/http"
	"github.com/Alias1177/SetupAnalyzer/internal/model"
)

const (
	DefaultBaseURL = "https://api.binance.com"
	DefaultLimit   = 100

	klinesPath   = "/api/v3/klines"
	klineColumns = 12
)

// ErrNoData is returned when Binance answers with an empty or malformed kline list.
var ErrNoData = errors.New("no kline data returned")

// Client is the Binance market data client
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Binance client
type ClientOptions struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// NewClient creates a new Binance API client
func NewClient(options ClientOptions) *Client {
	baseURL := strings.TrimRight(options.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{Timeout: options.RequestTimeout}),
		logger:     log.With().Str("component", "binance_client").Logger(),
	}
}

// GetKlines fetches the most recent candles for symbol/interval, oldest first.
// The interval is passed through as is, Binance rejects unknown values.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol))
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := c.baseURL + klinesPath + "?" + q.Encode()

	c.logger.Debug().Str("url", endpoint).Msg("Fetching klines")

	body, err := c.httpClient.GetBody(ctx, endpoint)
	if err != nil {
		c.logger.Error().Err(err).Str("symbol", symbol).Str("interval", interval).Msg("Binance klines request failed")
		return nil, fmt.Errorf("fetching klines: %w", err)
	}

	candles, err := parseKlines(body)
	if err != nil {
		c.logger.Warn().Err(err).Str("response", truncate(string(body), 256)).Msg("Unusable klines response")
		return nil, err
	}

	c.logger.Debug().Int("count", len(candles)).Msg("Fetched klines")
	return candles, nil
}

// parseKlines maps the positional 12-column kline rows onto model.Candle.
func parseKlines(body []byte) ([]model.Candle, error) {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: parsing JSON: %v", ErrNoData, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	candles := make([]model.Candle, 0, len(rows))
	for i, row := range rows {
		candle, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrNoData, i, err)
		}
		candles = append(candles, candle)
	}

	// Sort candles by open time (oldest first for proper calculations)
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].OpenTime.Before(candles[j].OpenTime)
	})

	return candles, nil
}

func parseRow(row []json.RawMessage) (model.Candle, error) {
	if len(row) != klineColumns {
		return model.Candle{}, fmt.Errorf("expected %d columns, got %d", klineColumns, len(row))
	}

	var (
		c   model.Candle
		err error
	)
	openTime, err := parseInt(row[0])
	if err != nil {
		return c, fmt.Errorf("open time: %w", err)
	}
	closeTime, err := parseInt(row[6])
	if err != nil {
		return c, fmt.Errorf("close time: %w", err)
	}
	c.OpenTime = time.UnixMilli(openTime).UTC()
	c.CloseTime = time.UnixMilli(closeTime).UTC()

	if c.Close, err = parseFloat(row[4]); err != nil {
		return c, fmt.Errorf("close: %w", err)
	}

	// The remaining columns are informational; a bad value there does not spoil the row.
	c.Open, _ = parseFloat(row[1])
	c.High, _ = parseFloat(row[2])
	c.Low, _ = parseFloat(row[3])
	c.Volume, _ = parseFloat(row[5])
	c.QuoteAssetVolume, _ = parseFloat(row[7])
	c.NumberOfTrades, _ = parseInt(row[8])
	c.TakerBuyBase, _ = parseFloat(row[9])
	c.TakerBuyQuote, _ = parseFloat(row[10])

	return c, nil
}

// parseFloat accepts both quoted ("0.0157") and bare numeric JSON values.
func parseFloat(raw json.RawMessage) (float64, error) {
	s := strings.Trim(string(raw), `"`)
	return strconv.ParseFloat(s, 64)
}

func parseInt(raw json.RawMessage) (int64, error) {
	s := strings.Trim(string(raw), `"`)
	return strconv.ParseInt(s, 10, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
