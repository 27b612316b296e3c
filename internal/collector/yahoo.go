package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"TrendSentinel/internal/model"
	"TrendSentinel/internal/platform/httpclient"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL   string
	Client    *httpclient.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	logger    zerolog.Logger
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(client *httpclient.Client) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  client,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
		logger: log.With().Str("component", "yahoo_fetcher").Logger(),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta       json.RawMessage `json:"meta"`
			Timestamp  []int64         `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooMeta struct {
	Symbol               string   `json:"symbol"`
	ExchangeTimezoneName string   `json:"exchangeTimezoneName"`
	GMTOffset            int      `json:"gmtoffset"`
	RegularMarketPrice   *float64 `json:"regularMarketPrice"`
	PreviousClose        *float64 `json:"previousClose"`
	ChartPreviousClose   *float64 `json:"chartPreviousClose"`
	RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  *float64 `json:"regularMarketVolume"`
}

func (m *yahooMeta) location() *time.Location {
	if m.ExchangeTimezoneName != "" {
		if loc, err := time.LoadLocation(m.ExchangeTimezoneName); err == nil {
			return loc
		}
	}
	if m.GMTOffset != 0 {
		return time.FixedZone("", m.GMTOffset)
	}
	return time.UTC
}

type chartResult struct {
	meta    yahooMeta
	rawMeta map[string]any
	bars    []model.OHLCV
	opens   []*float64
	volumes []*float64
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (*chartResult, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), url.QueryEscape(interval), url.QueryEscape(rng))
	f.logger.Debug().Str("url", u).Msg("fetching chart")

	body, err := f.Client.Get(ctx, u, nil)
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			var chart yahooChart
			if json.Unmarshal([]byte(se.Body), &chart) == nil && chart.Chart.Error != nil {
				return nil, fmt.Errorf("yahoo %s: %w: %s", symbol, ErrNoData, chart.Chart.Error.Description)
			}
		}
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %w: %s", symbol, ErrNoData, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	out := &chartResult{}
	if len(result.Meta) > 0 {
		if err := json.Unmarshal(result.Meta, &out.meta); err != nil {
			return nil, fmt.Errorf("yahoo decode meta: %w", err)
		}
		if err := json.Unmarshal(result.Meta, &out.rawMeta); err != nil {
			return nil, fmt.Errorf("yahoo decode meta: %w", err)
		}
	}
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return out, nil
	}

	loc := out.meta.location()
	quote := result.Indicators.Quote[0]
	out.opens = quote.Open
	out.volumes = quote.Volume
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == nil || h == nil || l == nil || c == nil {
			continue // skip null bars (holidays etc.)
		}
		b := model.OHLCV{
			Time:  time.Unix(ts, 0).In(loc),
			Open:  *o,
			High:  *h,
			Low:   *l,
			Close: *c,
		}
		if v := at(quote.Volume, i); v != nil {
			b.Volume = *v
			b.HasVolume = true
		}
		bars = append(bars, b)
	}
	out.bars = normalizeBars(bars)
	return out, nil
}

func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

// FetchDailyBars fetches daily bars over a Yahoo range such as "1y" or "max".
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol, period string) ([]model.OHLCV, error) {
	res, err := f.fetchChart(ctx, symbol, "1d", period)
	if err != nil {
		return nil, err
	}
	f.logger.Debug().Str("symbol", symbol).Int("count", len(res.bars)).Msg("fetched daily bars")
	return res.bars, nil
}

// FetchQuote builds a snapshot from the chart metadata of the current session.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	res, err := f.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}
	m := res.meta
	q := &model.Quote{
		Symbol:              m.Symbol,
		RegularMarketPrice:  m.RegularMarketPrice,
		PreviousClose:       m.PreviousClose,
		DayLow:              m.RegularMarketDayLow,
		DayHigh:             m.RegularMarketDayHigh,
		RegularMarketVolume: m.RegularMarketVolume,
		FetchedAt:           time.Now(),
		Raw:                 res.rawMeta,
	}
	if q.PreviousClose == nil {
		q.PreviousClose = m.ChartPreviousClose
	}
	if n := len(res.opens); n > 0 {
		q.RegularMarketOpen = res.opens[n-1]
	}
	if n := len(res.volumes); n > 0 {
		q.Volume = res.volumes[n-1]
	}
	return q, nil
}
