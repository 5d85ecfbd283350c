package analyze

import (
	"github.com/shopspring/decimal"

	"github.com/Alias1177/SetupAnalyzer/internal/config"
	"github.com/Alias1177/SetupAnalyzer/internal/model"
	"github.com/Alias1177/SetupAnalyzer/internal/trading/risk"
)

// Payload is the JSON body returned by /analyze
type Payload map[string]any

// Messages used by the minimal response shape
const (
	MessageBuy     = "📈 Buy signal"
	MessageSell    = "📉 Sell signal"
	MessageNoTrade = "❕ No clear setup"
	MessageNoData  = "no data available"
	MessageFailed  = "❌ Setup analysis failed"

	signalNoData = "No Data"
	signalFailed = "Error"
)

// SetupMessage returns the human readable sentence for a signal.
func SetupMessage(signal model.Signal) string {
	switch signal {
	case model.SignalBuy:
		return MessageBuy
	case model.SignalSell:
		return MessageSell
	default:
		return MessageNoTrade
	}
}

// BuildPayload renders an analysis in the requested response shape.
func BuildPayload(shape string, a model.Analysis) Payload {
	if shape != config.ShapeExtended {
		return Payload{"setup": SetupMessage(a.Signal)}
	}

	levels := risk.FixedLevels(a.Close)
	return Payload{
		"symbol":   a.Symbol,
		"interval": a.Interval,
		"close":    a.Close,
		"signal":   string(a.Signal),
		"entry":    levels.Entry.InexactFloat64(),
		"sl":       levels.StopLoss.InexactFloat64(),
		"tp":       levels.TakeProfit.InexactFloat64(),
		"rsi":      decimal.NewFromFloat(a.RSI).Round(2).InexactFloat64(),
	}
}

// NoDataPayload is returned when the exchange gave nothing usable.
func NoDataPayload(shape, symbol, interval string) Payload {
	return statusPayload(shape, symbol, interval, signalNoData, MessageNoData)
}

// FailurePayload is returned when indicators could not be computed.
func FailurePayload(shape, symbol, interval string) Payload {
	return statusPayload(shape, symbol, interval, signalFailed, MessageFailed)
}

func statusPayload(shape, symbol, interval, signal, message string) Payload {
	if shape != config.ShapeExtended {
		return Payload{"setup": message}
	}
	return Payload{
		"symbol":   symbol,
		"interval": interval,
		"signal":   signal,
		"error":    message,
	}
}
