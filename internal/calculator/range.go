package calculator

import (
	"errors"
	"math"

	"TrendSentinel/internal/model"
)

// PriceRange summarises the span of a series.
type PriceRange struct {
	High     float64
	Low      float64
	Last     float64
	Position float64 // where Last sits between Low and High, 0.0~1.0
}

// CalculateRange scans all bars and returns the high, low and last close.
func CalculateRange(bars []model.OHLCV) (PriceRange, error) {
	if len(bars) == 0 {
		return PriceRange{}, errors.New("no bars provided")
	}
	r := PriceRange{High: math.Inf(-1), Low: math.Inf(1), Last: bars[len(bars)-1].Close}
	for _, b := range bars {
		if b.High > r.High {
			r.High = b.High
		}
		if b.Low < r.Low {
			r.Low = b.Low
		}
	}
	pos, err := CalculatePosition(r.Last, r.High, r.Low)
	if err != nil {
		return PriceRange{}, err
	}
	r.Position = pos
	return r, nil
}

// CalculatePosition returns where current sits within [low, high] (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
