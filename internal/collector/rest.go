package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"TrendSentinel/internal/model"
	"TrendSentinel/internal/platform/httpclient"
)

// RESTFetcher implements Fetcher against a generic bars/quote REST API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *httpclient.Client
	logger  zerolog.Logger
}

// NewRESTFetcher creates a fetcher for the API rooted at baseURL.
func NewRESTFetcher(baseURL, apiKey string, client *httpclient.Client) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  client,
		logger:  log.With().Str("component", "rest_fetcher").Logger(),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of one bar.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      float64  `json:"open"`
	High      float64  `json:"high"`
	Low       float64  `json:"low"`
	Close     float64  `json:"close"`
	Volume    *float64 `json:"volume"`
}

type restQuote struct {
	Symbol              string   `json:"symbol"`
	Price               *float64 `json:"price"`
	RegularMarketPrice  *float64 `json:"regular_market_price"`
	PreviousClose       *float64 `json:"previous_close"`
	DayLow              *float64 `json:"day_low"`
	DayHigh             *float64 `json:"day_high"`
	Volume              *float64 `json:"volume"`
	RegularMarketVolume *float64 `json:"regular_market_volume"`
	Open                *float64 `json:"open"`
}

func (f *RESTFetcher) header() http.Header {
	h := http.Header{}
	if f.APIKey != "" {
		h.Set("Authorization", "Bearer "+f.APIKey)
	}
	return h
}

func (f *RESTFetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	body, err := f.Client.Get(ctx, endpoint, f.header())
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNoData, se.Body)
		}
		return nil, err
	}
	return body, nil
}

func (f *RESTFetcher) FetchDailyBars(ctx context.Context, symbol, period string) ([]model.OHLCV, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&period=%s",
		f.BaseURL, url.QueryEscape(symbol), url.QueryEscape(period))
	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	var raw []restBar
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.OHLCV, len(raw))
	for i, rb := range raw {
		bars[i] = model.OHLCV{
			Time:  time.Unix(rb.Timestamp, 0).UTC(),
			Open:  rb.Open,
			High:  rb.High,
			Low:   rb.Low,
			Close: rb.Close,
		}
		if rb.Volume != nil {
			bars[i].Volume = *rb.Volume
			bars[i].HasVolume = true
		}
	}
	f.logger.Debug().Str("symbol", symbol).Int("count", len(bars)).Msg("fetched daily bars")
	return normalizeBars(bars), nil
}

func (f *RESTFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	var rq restQuote
	if err := json.Unmarshal(body, &rq); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return &model.Quote{
		Symbol:              rq.Symbol,
		CurrentPrice:        rq.Price,
		RegularMarketPrice:  rq.RegularMarketPrice,
		PreviousClose:       rq.PreviousClose,
		DayLow:              rq.DayLow,
		DayHigh:             rq.DayHigh,
		Volume:              rq.Volume,
		RegularMarketVolume: rq.RegularMarketVolume,
		RegularMarketOpen:   rq.Open,
		FetchedAt:           time.Now(),
		Raw:                 raw,
	}, nil
}
