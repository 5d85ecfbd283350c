package calculate

import (
	"errors"
	"fmt"
	"math"

	"github.com/Alias1177/SetupAnalyzer/internal/model"
)

// ErrInsufficientHistory is returned when the series is too short for an
// indicator window to produce a value at its tail.
var ErrInsufficientHistory = errors.New("insufficient candle history")

// Compute calculates the RSI and EMA series for candles.
func Compute(candles []model.Candle, rsiPeriod, emaPeriod int) (model.IndicatorSeries, error) {
	if len(candles) == 0 {
		return model.IndicatorSeries{}, fmt.Errorf("%w: empty series", ErrInsufficientHistory)
	}

	closes := model.Closes(candles)
	series := model.IndicatorSeries{
		RSI: RSISeries(closes, rsiPeriod),
		EMA: EMASeries(closes, emaPeriod),
	}

	rsi, ema := series.Last()
	if math.IsNaN(rsi) {
		return series, fmt.Errorf("%w: RSI(%d) needs %d candles, got %d", ErrInsufficientHistory, rsiPeriod, rsiPeriod+1, len(candles))
	}
	if math.IsNaN(ema) {
		return series, fmt.Errorf("%w: EMA(%d) needs %d candles, got %d", ErrInsufficientHistory, emaPeriod, emaPeriod, len(candles))
	}

	return series, nil
}
