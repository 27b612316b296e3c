package model

import (
	"math"
	"time"
)

// Direction is the trend side of a defined signal value.
type Direction int8

const (
	Bearish Direction = -1
	Bullish Direction = 1
)

// DirectionFromValue maps an indicator value to a Direction.
// Only +1 and -1 are defined; NaN and anything else report false.
func DirectionFromValue(v float64) (Direction, bool) {
	switch {
	case math.IsNaN(v):
		return 0, false
	case v == 1:
		return Bullish, true
	case v == -1:
		return Bearish, true
	default:
		return 0, false
	}
}

// Valid reports whether d is Bullish or Bearish.
func (d Direction) Valid() bool { return d == Bullish || d == Bearish }

// Value returns the signed indicator value of d.
func (d Direction) Value() float64 { return float64(d) }

func (d Direction) String() string {
	switch d {
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "undefined"
	}
}

// SignalPoint is one entry of a directional signal.
type SignalPoint struct {
	Time      time.Time
	Direction Direction
	Defined   bool
}

// FlipEvent marks a bar where the direction changed.
type FlipEvent struct {
	Time      time.Time
	Direction Direction // direction transitioned to
}

// Action is "buy" for a bullish flip and "sell" for a bearish one.
func (f FlipEvent) Action() string {
	if f.Direction == Bullish {
		return "buy"
	}
	return "sell"
}

// TrendSegment is a maximal run of constant direction.
type TrendSegment struct {
	Direction Direction
	Start     time.Time
	End       time.Time
}
