package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"TrendSentinel/internal/analyzer"
	"TrendSentinel/internal/chart"
	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/config"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/platform/httpclient"
	"TrendSentinel/internal/platform/logging"
	"TrendSentinel/internal/report"
	"TrendSentinel/internal/scheduler"
)

const notifyRetries = 3

func main() {
	os.Exit(run())
}

func run() int {
	var (
		cfgPath    = flag.String("config", "configs/config.yaml", "path to YAML config file")
		ticker     = flag.String("ticker", "MSFT", "stock ticker symbol (e.g. MSFT, AAPL)")
		period     = flag.String("period", "1y", "period for historical data (e.g. 1mo, 6mo, 1y, 5y, max)")
		atrLength  = flag.Int("atr_length", 10, "ATR period length for Supertrend")
		multiplier = flag.Float64("multiplier", 3.0, "multiplier for Supertrend")
		interval   = flag.String("interval", "daily", "data interval for analysis: daily or weekly")
		plotOn     = flag.Bool("plot", true, "save a PNG chart of the analysis")
		plotDir    = flag.String("plot_dir", ".", "directory for the PNG chart")
		schedule   = flag.String("schedule", "", "cron expression with seconds field; repeat the analysis")
		notify     = flag.Bool("notify", false, "send the report to Telegram when configured")
	)
	flag.Parse()
	logging.Setup("info")

	if err := config.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("could not load .env")
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Error().Err(err).Msg("load config")
		return analyzer.ExitUsage
	}

	// explicitly passed flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ticker":
			cfg.Analysis.Ticker = *ticker
		case "period":
			cfg.Analysis.Period = *period
		case "atr_length":
			cfg.Analysis.ATRLength = *atrLength
		case "multiplier":
			cfg.Analysis.Multiplier = *multiplier
		case "interval":
			cfg.Analysis.Interval = *interval
		case "plot":
			cfg.Chart.Enabled = *plotOn
		case "plot_dir":
			cfg.Chart.Dir = *plotDir
		case "schedule":
			cfg.Schedule.Cron = *schedule
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation")
		return analyzer.ExitUsage
	}
	logging.Setup(cfg.LogLevel)

	iv, err := model.ParseInterval(cfg.Analysis.Interval)
	if err != nil {
		log.Error().Err(err).Msg("invalid interval")
		return analyzer.ExitUsage
	}
	params := analyzer.Params{
		Symbol:     cfg.Analysis.Ticker,
		Period:     cfg.Analysis.Period,
		ATRLength:  cfg.Analysis.ATRLength,
		Multiplier: cfg.Analysis.Multiplier,
		Interval:   iv,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := httpclient.New(httpclient.Options{
		Timeout:        cfg.DataSource.Timeout,
		RequestsPerSec: cfg.DataSource.RequestsPerSec,
		MaxRetries:     cfg.DataSource.MaxRetries,
		ProxyURL:       cfg.DataSource.Proxy,
		UserAgent:      "Mozilla/5.0 (compatible; TrendSentinel/1.0)",
	})
	fetcher := collector.NewFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, client)
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")
	a := analyzer.New(collector.NewCollector(fetcher))

	var tn *notifier.TelegramNotifier
	if *notify {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
		if !tn.Configured() {
			log.Warn().Msg("--notify set but telegram.bot_token/chat_id are missing, skipping delivery")
			tn = nil
		}
	}

	task := func(ctx context.Context) error {
		res, err := a.Run(ctx, params)
		if err != nil {
			return err
		}
		text := report.FormatAnalysis(res)
		fmt.Print(text)

		if cfg.Chart.Enabled && !res.Insufficient() {
			log.Info().Msg("generating plot")
			if path, err := chart.Render(res, cfg.Chart.Dir); err != nil {
				log.Error().Err(err).Msg("error during plotting")
			} else {
				log.Info().Str("path", path).Msg("plot saved")
			}
		}
		if tn != nil {
			if err := tn.SendWithRetry(ctx, text, notifyRetries); err != nil {
				log.Error().Err(err).Msg("send report")
			}
		}
		return nil
	}

	if cfg.Schedule.Cron == "" {
		return analyzer.ExitCode(task(ctx))
	}

	sched := scheduler.NewScheduler(ctx)
	if err := sched.Register(cfg.Schedule.Cron, task); err != nil {
		log.Error().Err(err).Msg("register schedule")
		return analyzer.ExitUsage
	}
	sched.RunNow(task)
	sched.Start()
	log.Info().Str("cron", cfg.Schedule.Cron).Msg("running on schedule, press Ctrl+C to stop")
	<-ctx.Done()
	sched.Stop()
	return analyzer.ExitOK
}
