package analyze

import "github.com/Alias1177/SetupAnalyzer/internal/model"

const (
	oversoldRSI   = 30.0
	overboughtRSI = 70.0
)

// Classify turns the latest close, RSI and EMA into a trade signal.
// Oversold with price above the trend is a buy, overbought with price below
// the trend is a sell; everything else, NaN included, is no trade.
func Classify(close, rsi, ema float64) model.Signal {
	if rsi < oversoldRSI && close > ema {
		return model.SignalBuy
	}
	if rsi > overboughtRSI && close < ema {
		return model.SignalSell
	}
	return model.SignalNoTrade
}
