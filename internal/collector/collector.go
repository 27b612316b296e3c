package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"TrendSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Quote     *model.Quote
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, _ string) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, 60), nil
}

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (*model.Quote, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Quote != nil {
		return m.Quote, nil
	}
	p := m.Price
	return &model.Quote{Symbol: symbol, RegularMarketPrice: &p, FetchedAt: time.Now()}, nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	start := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -count)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:      start.AddDate(0, 0, i),
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			Volume:    1000000,
			HasVolume: true,
		}
	}
	return bars
}

// normalizeBars sorts bars by time and keeps the last bar of any duplicate timestamp.
func normalizeBars(bars []model.OHLCV) []model.OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// Collector fetches and prepares the price series for one analysis run.
type Collector struct {
	Fetcher Fetcher
	logger  zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{
		Fetcher: fetcher,
		logger:  log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
	}
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Collect fetches daily bars for symbol over period and, for the weekly
// interval, aggregates them into ISO weeks.
func (c *Collector) Collect(ctx context.Context, symbol, period string, interval model.Interval) (*model.Series, error) {
	symbol = NormalizeSymbol(symbol)
	c.logger.Info().Str("symbol", symbol).Str("period", period).Str("interval", string(interval)).
		Msg("fetching historical data")

	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, period)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return nil, fmt.Errorf("%w for %s for the period %s: %v", ErrEmptySeries, symbol, period, err)
		}
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w for %s for the period %s", ErrEmptySeries, symbol, period)
	}

	series := &model.Series{
		Symbol:    symbol,
		Period:    period,
		Interval:  model.IntervalDaily,
		Bars:      bars,
		FetchedAt: time.Now(),
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	c.logger.Info().Int("count", series.Len()).Msg("fetched daily data points")

	if interval != model.IntervalWeekly {
		return series, nil
	}

	weekly, volumeless := ResampleWeekly(series.Bars)
	if volumeless > 0 {
		c.logger.Warn().Int("weeks", volumeless).
			Msg("volume missing for some daily bars, weekly volume omitted for those weeks")
	}
	if len(weekly) == 0 {
		return nil, fmt.Errorf("%w for %s for the period %s", ErrEmptyAfterAggregation, symbol, period)
	}
	series.Bars = weekly
	series.Interval = model.IntervalWeekly
	c.logger.Info().Int("count", series.Len()).Msg("resampled to weekly data points")
	return series, nil
}

// Quote fetches the current quote snapshot for symbol.
func (c *Collector) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	return c.Fetcher.FetchQuote(ctx, NormalizeSymbol(symbol))
}
