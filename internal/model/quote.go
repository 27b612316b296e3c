package model

import "time"

// Quote is a point-in-time market snapshot. Nil fields were not reported.
type Quote struct {
	Symbol              string
	CurrentPrice        *float64
	RegularMarketPrice  *float64
	PreviousClose       *float64
	DayLow              *float64
	DayHigh             *float64
	Volume              *float64
	RegularMarketVolume *float64
	RegularMarketOpen   *float64
	FetchedAt           time.Time

	// Raw keeps the provider payload for diagnostics.
	Raw map[string]any
}

// Price returns current price, falling back to regular market price and then previous close.
func (q *Quote) Price() *float64 {
	return firstNonZero(q.CurrentPrice, q.RegularMarketPrice, q.PreviousClose)
}

// TotalVolume returns volume, falling back to regular market volume.
func (q *Quote) TotalVolume() *float64 {
	return firstNonZero(q.Volume, q.RegularMarketVolume)
}

func firstNonZero(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil && *v != 0 {
			return v
		}
	}
	// a reported zero still beats nothing for the last fallback
	return vals[len(vals)-1]
}
