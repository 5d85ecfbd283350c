package calculate

// EMASeries computes the exponential moving average of prices. The value at
// index period-1 is the simple average of the first period prices; earlier
// entries are NaN.
func EMASeries(prices []float64, period int) []float64 {
	out := nanSeries(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	// Calculate simple moving average for the initial value
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)
	out[period-1] = ema

	// Multiplier for weighting the EMA
	multiplier := 2.0 / float64(period+1)

	for i := period; i < len(prices); i++ {
		ema = prices[i]*multiplier + ema*(1-multiplier)
		out[i] = ema
	}

	return out
}
