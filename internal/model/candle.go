package model

import "time"

// Candle represents a single Binance kline
type Candle struct {
	OpenTime         time.Time `json:"open_time"`
	Open             float64   `json:"open"`
	High             float64   `json:"high"`
	Low              float64   `json:"low"`
	Close            float64   `json:"close"`
	Volume           float64   `json:"volume"`
	CloseTime        time.Time `json:"close_time"`
	QuoteAssetVolume float64   `json:"quote_asset_volume"`
	NumberOfTrades   int64     `json:"number_of_trades"`
	TakerBuyBase     float64   `json:"taker_buy_base"`
	TakerBuyQuote    float64   `json:"taker_buy_quote"`
}

// Closes returns the closing prices in series order.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
