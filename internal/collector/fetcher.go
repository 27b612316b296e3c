package collector

import (
	"context"
	"errors"

	"TrendSentinel/internal/model"
	"TrendSentinel/internal/platform/httpclient"
)

var (
	// ErrNoData is returned by a Fetcher when the source has nothing for the symbol.
	ErrNoData = errors.New("no data returned")
	// ErrEmptySeries means the source returned no bars for the symbol and period.
	ErrEmptySeries = errors.New("no data found")
	// ErrEmptyAfterAggregation means resampling left no bars.
	ErrEmptyAfterAggregation = errors.New("no data left after resampling")
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns daily bars for period ("1mo", "6mo", "1y", "5y", "max", ...)
	// in ascending time order.
	FetchDailyBars(ctx context.Context, symbol, period string) ([]model.OHLCV, error)
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	Name() string
}

// NewFetcher returns the REST fetcher when baseURL is set and Yahoo otherwise.
func NewFetcher(baseURL, apiKey string, client *httpclient.Client) Fetcher {
	if baseURL != "" {
		return NewRESTFetcher(baseURL, apiKey, client)
	}
	return NewYahooFetcher(client)
}
