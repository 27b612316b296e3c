package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"TrendSentinel/internal/analyzer"
	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/config"
	"TrendSentinel/internal/platform/httpclient"
	"TrendSentinel/internal/platform/logging"
	"TrendSentinel/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(os.Stderr, "Usage: quote <TICKER_SYMBOL>")
		return analyzer.ExitUsage
	}
	logging.Setup("info")

	if err := config.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("could not load .env")
	}
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Error().Err(err).Msg("load config")
		return analyzer.ExitUsage
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := httpclient.New(httpclient.Options{
		Timeout:        cfg.DataSource.Timeout,
		RequestsPerSec: cfg.DataSource.RequestsPerSec,
		MaxRetries:     cfg.DataSource.MaxRetries,
		ProxyURL:       cfg.DataSource.Proxy,
		UserAgent:      "Mozilla/5.0 (compatible; TrendSentinel/1.0)",
	})
	col := collector.NewCollector(collector.NewFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, client))

	ticker := collector.NormalizeSymbol(args[0])
	q, err := col.Quote(ctx, ticker)
	switch {
	case errors.Is(err, collector.ErrNoData):
		fmt.Print(report.FormatQuote(ticker, nil))
		return analyzer.ExitOK
	case err != nil:
		log.Error().Err(err).Str("ticker", ticker).Msg("unexpected error while fetching quote")
		return analyzer.ExitFetch
	}
	fmt.Print(report.FormatQuote(ticker, q))
	return analyzer.ExitOK
}
