package risk

import "github.com/shopspring/decimal"

var (
	// StopLossFactor puts the stop 0.5% under entry.
	StopLossFactor = decimal.RequireFromString("0.995")
	// TakeProfitFactor puts the target 1% above entry.
	TakeProfitFactor = decimal.RequireFromString("1.01")
)

// Levels holds the entry, stop-loss and take-profit derived from a close price
type Levels struct {
	Entry      decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
}

// FixedLevels enters at close with fixed percentage offsets, rounded to 2 dp.
func FixedLevels(close float64) Levels {
	price := decimal.NewFromFloat(close)
	return Levels{
		Entry:      price.Round(2),
		StopLoss:   price.Mul(StopLossFactor).Round(2),
		TakeProfit: price.Mul(TakeProfitFactor).Round(2),
	}
}

// RiskRewardRatio returns reward per unit of risk, zero when the stop equals entry.
func (l Levels) RiskRewardRatio() float64 {
	risk := l.Entry.Sub(l.StopLoss).Abs()
	if risk.IsZero() {
		return 0
	}
	return l.TakeProfit.Sub(l.Entry).Abs().Div(risk).InexactFloat64()
}
