package model

// Signal is the trade decision for the latest candle
type Signal string

const (
	SignalBuy     Signal = "Buy"
	SignalSell    Signal = "Sell"
	SignalNoTrade Signal = "No Trade"
)

// Analysis is the outcome of one pipeline run over a candle series.
type Analysis struct {
	Symbol   string
	Interval string
	Close    float64
	RSI      float64
	EMA      float64
	Signal   Signal
}
