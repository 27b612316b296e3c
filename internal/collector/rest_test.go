package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TrendSentinel/internal/platform/httpclient"
)

func TestREST_FetchDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/bars/daily" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		if r.URL.Query().Get("symbol") != "MSFT" || r.URL.Query().Get("period") != "6mo" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		// unordered on purpose
		w.Write([]byte(`[
			{"timestamp":1704292200,"open":2,"high":3,"low":1,"close":2.5},
			{"timestamp":1704205800,"open":1,"high":2,"low":0.5,"close":1.5,"volume":1000}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", httpclient.New(httpclient.Options{Timeout: 5 * time.Second}))
	bars, err := f.FetchDailyBars(context.Background(), "MSFT", "6mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if !bars[0].Time.Before(bars[1].Time) {
		t.Error("bars not sorted ascending")
	}
	if !bars[0].HasVolume || bars[1].HasVolume {
		t.Errorf("volume flags wrong: %+v", bars)
	}
}

func TestREST_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown symbol", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "", httpclient.New(httpclient.Options{}))
	if _, err := f.FetchQuote(context.Background(), "ZZZZ"); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestREST_FetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"MSFT","price":0,"regular_market_price":411.2,"previous_close":409.9}`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "", httpclient.New(httpclient.Options{}))
	q, err := f.FetchQuote(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := q.Price(); p == nil || *p != 411.2 {
		t.Errorf("zero price should fall back to regular market price, got %v", p)
	}
	if q.DayHigh != nil {
		t.Errorf("unreported field should be nil, got %v", *q.DayHigh)
	}
}
