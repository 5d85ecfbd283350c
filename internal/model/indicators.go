package model

// IndicatorSeries holds RSI and EMA values aligned index-for-index with the
// candle series they were computed from. Entries without enough history are NaN.
type IndicatorSeries struct {
	RSI []float64 `json:"rsi"`
	EMA []float64 `json:"ema"`
}

// Last returns the most recent RSI and EMA values.
func (s IndicatorSeries) Last() (rsi, ema float64) {
	return s.RSI[len(s.RSI)-1], s.EMA[len(s.EMA)-1]
}
