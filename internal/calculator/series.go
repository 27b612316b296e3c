package calculator

import (
	"time"

	"TrendSentinel/internal/model"
)

func extractHLC(bars []model.OHLCV) (highs, lows, closes []float64) {
	highs = make([]float64, len(bars))
	lows = make([]float64, len(bars))
	closes = make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
	}
	return highs, lows, closes
}

func extractTimes(bars []model.OHLCV) []time.Time {
	ts := make([]time.Time, len(bars))
	for i, b := range bars {
		ts[i] = b.Time
	}
	return ts
}
