// Package analyzer runs one Supertrend analysis: fetch, compute, segment.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/trend"
)

// Params selects the series and indicator settings of a run.
type Params struct {
	Symbol     string
	Period     string
	ATRLength  int
	Multiplier float64
	Interval   model.Interval
}

// Validate rejects parameters the indicator cannot use.
func (p Params) Validate() error {
	if strings.TrimSpace(p.Symbol) == "" {
		return fmt.Errorf("%w: ticker is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Period) == "" {
		return fmt.Errorf("%w: period is required", ErrInvalidParams)
	}
	if p.ATRLength <= 0 {
		return fmt.Errorf("%w: atr_length must be positive, got %d", ErrInvalidParams, p.ATRLength)
	}
	if !(p.Multiplier > 0) || math.IsInf(p.Multiplier, 0) {
		return fmt.Errorf("%w: multiplier must be positive, got %v", ErrInvalidParams, p.Multiplier)
	}
	if _, err := model.ParseInterval(string(p.Interval)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// Columns returns the indicator column names for these parameters.
func (p Params) Columns() calculator.SupertrendColumns {
	return calculator.SupertrendNames(p.ATRLength, p.Multiplier)
}

// IndicatorFunc computes an indicator frame over bars.
type IndicatorFunc func(bars []model.OHLCV, length int, multiplier float64) (*model.IndicatorFrame, error)

// Result is everything one run produced.
type Result struct {
	RunID    string
	Params   Params
	Series   *model.Series
	Frame    *model.IndicatorFrame
	Columns  calculator.SupertrendColumns
	Signal   []model.SignalPoint
	Flips    []model.FlipEvent
	Segments []model.TrendSegment
	Range    calculator.PriceRange
}

// Insufficient reports whether no bar had a defined direction.
func (r *Result) Insufficient() bool { return len(r.Segments) == 0 }

// LastTrend returns the latest defined trend-line value.
func (r *Result) LastTrend() (float64, bool) {
	if r.Frame == nil {
		return 0, false
	}
	return r.Frame.Last(r.Columns.Trend)
}

// CurrentDirection returns the direction of the open segment.
func (r *Result) CurrentDirection() (model.Direction, bool) {
	if len(r.Segments) == 0 {
		return 0, false
	}
	return r.Segments[len(r.Segments)-1].Direction, true
}

// Analyzer owns the collaborators of a run. It keeps no state between runs.
type Analyzer struct {
	Collector *collector.Collector
	Indicator IndicatorFunc
}

// New creates an Analyzer computing the Supertrend indicator.
func New(col *collector.Collector) *Analyzer {
	return &Analyzer{Collector: col, Indicator: calculator.Supertrend}
}

// Run executes fetch, compute and segment for p. An input that never
// produces a defined direction is not an error; see Result.Insufficient.
func (a *Analyzer) Run(ctx context.Context, p Params) (*Result, error) {
	runID := uuid.NewString()
	logger := log.With().Str("component", "analyzer").Str("run_id", runID).Logger()

	p.Symbol = collector.NormalizeSymbol(p.Symbol)
	if err := p.Validate(); err != nil {
		logger.Error().Err(err).Msg("rejected parameters")
		return nil, err
	}

	series, err := a.Collector.Collect(ctx, p.Symbol, p.Period, p.Interval)
	if err != nil {
		logger.Error().Err(err).Str("symbol", p.Symbol).Str("period", p.Period).Msg("series acquisition failed")
		return nil, err
	}

	cols := p.Columns()
	logger.Info().Int("length", p.ATRLength).Float64("multiplier", p.Multiplier).
		Msg("calculating ATR and Supertrend")
	frame, err := a.compute(series.Bars, p)
	if err != nil {
		logger.Error().Err(err).Msg("indicator computation failed")
		logHead(logger, series, 5)
		return nil, err
	}
	logger.Debug().Strs("columns", frame.Names()).Msg("indicator frame ready")

	signal, err := trend.SignalFromFrame(frame, cols.Direction)
	if err != nil {
		logger.Error().Err(err).Msg("direction signal unavailable")
		if !errors.Is(err, trend.ErrMissingField) {
			err = fmt.Errorf("%w: %w", ErrComputation, err)
		}
		return nil, err
	}
	flips, segments := trend.Segment(signal)

	res := &Result{
		RunID:    runID,
		Params:   p,
		Series:   series,
		Frame:    frame,
		Columns:  cols,
		Signal:   signal,
		Flips:    flips,
		Segments: segments,
	}
	if rng, err := calculator.CalculateRange(series.Bars); err == nil {
		res.Range = rng
	}

	if res.Insufficient() {
		logger.Warn().Int("bars", series.Len()).Int("length", p.ATRLength).
			Msg("not enough defined data to identify trends")
	} else {
		logger.Info().Int("flips", len(flips)).Int("segments", len(segments)).Msg("trend analysis complete")
	}
	return res, nil
}

func (a *Analyzer) compute(bars []model.OHLCV, p Params) (frame *model.IndicatorFrame, err error) {
	defer func() {
		if r := recover(); r != nil {
			frame = nil
			err = fmt.Errorf("%w: panic: %v", ErrComputation, r)
		}
	}()
	indicator := a.Indicator
	if indicator == nil {
		indicator = calculator.Supertrend
	}
	frame, err = indicator(bars, p.ATRLength, p.Multiplier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrComputation, err)
	}
	if frame == nil {
		return nil, fmt.Errorf("%w: indicator returned no frame", ErrComputation)
	}
	return frame, nil
}

func logHead(logger zerolog.Logger, series *model.Series, n int) {
	if n > series.Len() {
		n = series.Len()
	}
	for _, b := range series.Bars[:n] {
		logger.Error().
			Time("time", b.Time).
			Float64("open", b.Open).
			Float64("high", b.High).
			Float64("low", b.Low).
			Float64("close", b.Close).
			Float64("volume", b.Volume).
			Msg("series head")
	}
}
