package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"MarketLens/internal/cache"
	"MarketLens/internal/chart"
	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/fetcher"
	"MarketLens/internal/scheduler"
	"MarketLens/internal/stats"
)

const dateLayout = "2006-01-02"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		tickersFlag = flag.String("tickers", "", "comma-separated tickers (e.g. ^ATX,^GSPC,BTC-USD)")
		startFlag   = flag.String("start", "", "start date (YYYY-MM-DD)")
		endFlag     = flag.String("end", time.Now().Format(dateLayout), "end date (YYYY-MM-DD)")
		freqFlag    = flag.String("freq", "M", "statistics frequency: D, M or Y")
		logPrice    = flag.Bool("log-price", true, "plot the price panel on a log scale")
		window      = flag.Int("window", 126, "rolling window for volatility and Sharpe panels")
		riskFree    = flag.Float64("rf", 0.02, "annualized risk-free rate for the Sharpe panel")
		outDir      = flag.String("out", ".", "directory for chart output")
		refresh     = flag.Bool("refresh", false, "bypass the cache freshness check")
		watch       = flag.Bool("watch", false, "keep running and refresh the cache on a cron schedule")
		cfgFlag     = flag.String("config", "", "config file path (default configs/config.yaml)")
	)
	flag.Parse()

	if *tickersFlag == "" || *startFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: -tickers and -start are required")
		flag.Usage()
		os.Exit(2)
	}

	start, err := time.ParseInLocation(dateLayout, *startFlag, time.UTC)
	if err != nil {
		log.Fatalf("[FATAL] invalid -start: %v", err)
	}
	end, err := time.ParseInLocation(dateLayout, *endFlag, time.UTC)
	if err != nil {
		log.Fatalf("[FATAL] invalid -end: %v", err)
	}
	freq, err := stats.ParseFrequency(*freqFlag)
	if err != nil {
		log.Fatalf("[FATAL] invalid -freq: %v", err)
	}

	cfgPath := *cfgFlag
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			cfgPath = v
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	cm, err := cache.NewManager(cfg)
	if err != nil {
		log.Fatalf("[FATAL] init cache: %v", err)
	}

	src := collector.NewYahooFetcher(cfg.Fetch.Proxy)
	log.Printf("[INFO] data source: %s, cache engine: %s", src.Name(), cfg.Cache.Engine)

	loader := fetcher.New(src, cm, cfg.Fetch.MaxWorkers)
	loader.Refresh = *refresh

	var specs []fetcher.TickerSpec
	for _, t := range strings.Split(*tickersFlag, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			specs = append(specs, fetcher.TickerSpec{Ticker: t, Label: t})
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assets := loader.LoadAssets(ctx, specs)

	for _, a := range assets {
		report, err := stats.Compute(a.Label, a.Series, start, end, freq)
		if err != nil {
			log.Printf("[WARN] %v", err)
			continue
		}
		fmt.Println(report.Format())

		path := filepath.Join(*outDir, "Stats_"+a.Label+".png")
		saved, err := chart.WriteFile(path, a.Label, a.Ticker, a.Series, start, end, chart.Options{
			LogPrice:     *logPrice,
			Window:       *window,
			RiskFreeRate: *riskFree,
		})
		if err != nil {
			log.Printf("[WARN] plot %s: %v", a.Label, err)
			continue
		}
		log.Printf("[INFO] saved asset stats plot to %s", saved)
	}

	if !*watch {
		return
	}

	// Watch mode: keep the cache warm until interrupted.
	sched := scheduler.New(ctx, loader, specs)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register refresh task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Println("[INFO] watch mode running. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("[INFO] shutdown signal received, stopping...")
}
