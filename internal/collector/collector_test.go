package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"TrendSentinel/internal/model"
)

func TestNormalizeBars(t *testing.T) {
	t1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 0, 1)
	bars := []model.OHLCV{
		{Time: t2, Close: 3},
		{Time: t1, Close: 1},
		{Time: t1, Close: 2},
	}
	got := normalizeBars(bars)
	if len(got) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(got))
	}
	if !got[0].Time.Equal(t1) || got[0].Close != 2 {
		t.Errorf("duplicate should keep the last bar, got %+v", got[0])
	}
	if !got[1].Time.Equal(t2) {
		t.Errorf("bars not sorted: %+v", got)
	}
}

func TestCollect_Daily(t *testing.T) {
	c := NewCollector(&MockFetcher{Price: 100})
	series, err := c.Collect(context.Background(), " msft ", "1y", model.IntervalDaily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Symbol != "MSFT" {
		t.Errorf("symbol = %q, want MSFT", series.Symbol)
	}
	if series.Interval != model.IntervalDaily || series.Len() != 60 {
		t.Errorf("unexpected series %s with %d bars", series.Interval, series.Len())
	}
}

func TestCollect_Weekly(t *testing.T) {
	c := NewCollector(&MockFetcher{Price: 100})
	series, err := c.Collect(context.Background(), "MSFT", "1y", model.IntervalWeekly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Interval != model.IntervalWeekly {
		t.Errorf("interval = %s, want weekly", series.Interval)
	}
	// 60 consecutive days span 9 or 10 ISO weeks
	if n := series.Len(); n < 9 || n > 10 {
		t.Errorf("unexpected weekly bar count %d", n)
	}
	for _, b := range series.Bars {
		if b.Time.Weekday() != time.Sunday {
			t.Errorf("weekly bar %s not labelled with a Sunday", b.Time)
		}
	}
}

func TestCollect_EmptySeries(t *testing.T) {
	c := NewCollector(&MockFetcher{DailyData: []model.OHLCV{}})
	_, err := c.Collect(context.Background(), "NOPE", "1y", model.IntervalDaily)
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}

	c = NewCollector(&MockFetcher{Err: ErrNoData})
	_, err = c.Collect(context.Background(), "NOPE", "1y", model.IntervalDaily)
	if !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries for ErrNoData, got %v", err)
	}
}

func TestCollect_FetchError(t *testing.T) {
	boom := errors.New("connection refused")
	c := NewCollector(&MockFetcher{Err: boom})
	_, err := c.Collect(context.Background(), "MSFT", "1y", model.IntervalDaily)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
	if errors.Is(err, ErrEmptySeries) {
		t.Error("transport failure must not be reported as empty series")
	}
}

func TestCollect_RejectsUnorderedBars(t *testing.T) {
	t1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	c := NewCollector(&MockFetcher{DailyData: []model.OHLCV{{Time: t1}, {Time: t1}}})
	if _, err := c.Collect(context.Background(), "MSFT", "1y", model.IntervalDaily); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCollector_Quote(t *testing.T) {
	c := NewCollector(&MockFetcher{Price: 42})
	q, err := c.Quote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", q.Symbol)
	}
	if p := q.Price(); p == nil || *p != 42 {
		t.Errorf("price = %v, want 42", p)
	}
}

func TestNewFetcher(t *testing.T) {
	if got := NewFetcher("", "", nil).Name(); got != "yahoo" {
		t.Errorf("default source = %q, want yahoo", got)
	}
	if got := NewFetcher("http://localhost:8080", "k", nil).Name(); got != "rest" {
		t.Errorf("source with base url = %q, want rest", got)
	}
}
