// Package trend turns a directional signal into flip events and trend segments.
package trend

import (
	"errors"
	"fmt"
	"time"

	"TrendSentinel/internal/model"
)

// ErrMissingField is returned when the indicator frame lacks the direction column.
var ErrMissingField = errors.New("direction column not found")

// SignalFromFrame extracts the directional signal stored in column.
func SignalFromFrame(frame *model.IndicatorFrame, column string) ([]model.SignalPoint, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: %q (no indicator output)", ErrMissingField, column)
	}
	values, ok := frame.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q, available: %v", ErrMissingField, column, frame.Names())
	}
	if len(values) != len(frame.Time) {
		return nil, fmt.Errorf("column %q has %d values for %d timestamps", column, len(values), len(frame.Time))
	}
	points := make([]model.SignalPoint, len(values))
	for i, v := range values {
		dir, defined := model.DirectionFromValue(v)
		points[i] = model.SignalPoint{Time: frame.Time[i], Direction: dir, Defined: defined}
	}
	return points, nil
}

// Segment scans the defined entries of points in order and returns the
// flips between consecutive defined values plus the maximal constant-direction
// segments. The last segment stays open at the last defined timestamp.
// Undefined entries are skipped and never start or end a comparison.
func Segment(points []model.SignalPoint) ([]model.FlipEvent, []model.TrendSegment) {
	var (
		flips    []model.FlipEvent
		segments []model.TrendSegment

		seeded  bool
		current model.Direction
		start   time.Time
		prev    model.SignalPoint
	)

	for _, p := range points {
		if !p.Defined || !p.Direction.Valid() {
			continue
		}
		if !seeded {
			current, start, prev = p.Direction, p.Time, p
			seeded = true
			continue
		}
		if p.Direction != prev.Direction {
			flips = append(flips, model.FlipEvent{Time: p.Time, Direction: p.Direction})
			if current != p.Direction {
				segments = append(segments, model.TrendSegment{Direction: current, Start: start, End: prev.Time})
			}
			current, start = p.Direction, p.Time
		}
		prev = p
	}

	if !seeded {
		return nil, nil
	}
	segments = append(segments, model.TrendSegment{Direction: current, Start: start, End: prev.Time})
	return flips, segments
}

// SplitFlips separates flips into buy (bullish) and sell (bearish) timestamps.
func SplitFlips(flips []model.FlipEvent) (buys, sells []time.Time) {
	for _, f := range flips {
		if f.Direction == model.Bullish {
			buys = append(buys, f.Time)
		} else {
			sells = append(sells, f.Time)
		}
	}
	return buys, sells
}
