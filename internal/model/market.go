package model

import (
	"fmt"
	"strings"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time      time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	HasVolume bool // false when the source did not report volume for this bar
}

// Interval is the bar bucket size of a Series.
type Interval string

const (
	IntervalDaily  Interval = "daily"
	IntervalWeekly Interval = "weekly"
)

// ParseInterval accepts "daily" or "weekly" (case-insensitive).
func ParseInterval(s string) (Interval, error) {
	switch Interval(strings.ToLower(strings.TrimSpace(s))) {
	case IntervalDaily:
		return IntervalDaily, nil
	case IntervalWeekly:
		return IntervalWeekly, nil
	default:
		return "", fmt.Errorf("invalid interval %q: must be daily or weekly", s)
	}
}

// Series holds an ordered price history for one symbol.
type Series struct {
	Symbol    string
	Period    string
	Interval  Interval
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Bars) }

// Empty reports whether the series has no bars.
func (s *Series) Empty() bool { return len(s.Bars) == 0 }

// Times returns the timestamp index of the series.
func (s *Series) Times() []time.Time {
	ts := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		ts[i] = b.Time
	}
	return ts
}

// Validate checks that timestamps are strictly increasing.
func (s *Series) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("series %s: bar %d at %s does not follow %s",
				s.Symbol, i, s.Bars[i].Time.Format(time.RFC3339), s.Bars[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// IndexOf returns the position of the bar stamped t, or -1.
func (s *Series) IndexOf(t time.Time) int {
	lo, hi := 0, len(s.Bars)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.Bars[mid].Time.Before(t) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.Bars) && s.Bars[lo].Time.Equal(t) {
		return lo
	}
	return -1
}
