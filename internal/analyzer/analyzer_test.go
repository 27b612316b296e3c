package analyzer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"TrendSentinel/internal/calculator"
	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/trend"
)

func bars(closes ...float64) []model.OHLCV {
	out := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		out[i] = model.OHLCV{
			Time:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
			HasVolume: true,
		}
	}
	return out
}

func newAnalyzer(f *collector.MockFetcher) *Analyzer {
	return New(collector.NewCollector(f))
}

func params(length int, mult float64) Params {
	return Params{Symbol: "msft", Period: "1y", ATRLength: length, Multiplier: mult, Interval: model.IntervalDaily}
}

func TestRun_FlipsAndSegments(t *testing.T) {
	a := newAnalyzer(&collector.MockFetcher{DailyData: bars(100, 101, 102, 103, 104, 105, 90, 89)})
	res, err := a.Run(context.Background(), params(2, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RunID == "" {
		t.Error("run id not set")
	}
	if res.Params.Symbol != "MSFT" {
		t.Errorf("symbol = %q, want MSFT", res.Params.Symbol)
	}
	if len(res.Flips) != 1 || res.Flips[0].Direction != model.Bearish {
		t.Fatalf("expected one bearish flip, got %+v", res.Flips)
	}
	if want := res.Series.Bars[6].Time; !res.Flips[0].Time.Equal(want) {
		t.Errorf("flip at %s, want %s", res.Flips[0].Time, want)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(res.Segments))
	}
	first := res.Segments[0]
	if first.Direction != model.Bullish || !first.Start.Equal(res.Series.Bars[2].Time) || !first.End.Equal(res.Series.Bars[5].Time) {
		t.Errorf("unexpected first segment %+v", first)
	}
	if dir, ok := res.CurrentDirection(); !ok || dir != model.Bearish {
		t.Errorf("current direction = %v, %v", dir, ok)
	}
	if v, ok := res.LastTrend(); !ok || v <= 89 {
		t.Errorf("last trend value = %v, %v", v, ok)
	}
	if res.Range.High != 106 || res.Range.Low != 88 {
		t.Errorf("unexpected range %+v", res.Range)
	}
}

func TestRun_InsufficientDataIsNotAnError(t *testing.T) {
	a := newAnalyzer(&collector.MockFetcher{DailyData: bars(100, 101, 102)})
	res, err := a.Run(context.Background(), params(10, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Insufficient() {
		t.Error("expected insufficient result")
	}
	if len(res.Flips) != 0 {
		t.Errorf("expected no flips, got %d", len(res.Flips))
	}
	if _, ok := res.CurrentDirection(); ok {
		t.Error("no direction expected")
	}
}

func TestRun_InvalidParams(t *testing.T) {
	a := newAnalyzer(&collector.MockFetcher{Price: 100})
	tests := []Params{
		params(0, 3),
		params(10, 0),
		{Symbol: "", Period: "1y", ATRLength: 10, Multiplier: 3, Interval: model.IntervalDaily},
		{Symbol: "MSFT", Period: "1y", ATRLength: 10, Multiplier: 3, Interval: "monthly"},
	}
	for _, p := range tests {
		_, err := a.Run(context.Background(), p)
		if !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%+v: expected ErrInvalidParams, got %v", p, err)
		}
		if ExitCode(err) != ExitUsage {
			t.Errorf("%+v: exit code %d, want %d", p, ExitCode(err), ExitUsage)
		}
	}
}

func TestRun_EmptySeries(t *testing.T) {
	a := newAnalyzer(&collector.MockFetcher{DailyData: []model.OHLCV{}})
	_, err := a.Run(context.Background(), params(10, 3))
	if ExitCode(err) != ExitEmptySeries {
		t.Fatalf("exit code %d for %v, want %d", ExitCode(err), err, ExitEmptySeries)
	}
}

func TestRun_MissingField(t *testing.T) {
	a := newAnalyzer(&collector.MockFetcher{DailyData: bars(1, 2, 3)})
	a.Indicator = func(b []model.OHLCV, _ int, _ float64) (*model.IndicatorFrame, error) {
		frame := model.NewIndicatorFrame(make([]time.Time, len(b)))
		frame.Columns["ATRr_10"] = frame.NaNColumn()
		return frame, nil
	}
	_, err := a.Run(context.Background(), params(10, 3))
	if !errors.Is(err, trend.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if ExitCode(err) != ExitMissingField {
		t.Errorf("exit code %d, want %d", ExitCode(err), ExitMissingField)
	}
}

func TestRun_ComputationFailure(t *testing.T) {
	bad := bars(100, 101, 102)
	bad[1].High = bad[1].Low - 5
	a := newAnalyzer(&collector.MockFetcher{DailyData: bad})
	_, err := a.Run(context.Background(), params(2, 1))
	if !errors.Is(err, ErrComputation) || !errors.Is(err, calculator.ErrInvalidInput) {
		t.Fatalf("expected computation error wrapping invalid input, got %v", err)
	}
	if ExitCode(err) != ExitComputation {
		t.Errorf("exit code %d, want %d", ExitCode(err), ExitComputation)
	}
}

func TestRun_RecoversIndicatorPanic(t *testing.T) {
	a := newAnalyzer(&collector.MockFetcher{DailyData: bars(1, 2, 3)})
	a.Indicator = func([]model.OHLCV, int, float64) (*model.IndicatorFrame, error) {
		var cols []float64
		_ = cols[5]
		return nil, nil
	}
	_, err := a.Run(context.Background(), params(2, 1))
	if !errors.Is(err, ErrComputation) {
		t.Fatalf("expected ErrComputation, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{fmt.Errorf("wrap: %w", collector.ErrEmptyAfterAggregation), ExitEmptyAfterAggregation},
		{fmt.Errorf("wrap: %w", collector.ErrEmptySeries), ExitEmptySeries},
		{errors.New("dial tcp: connection refused"), ExitFetch},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
