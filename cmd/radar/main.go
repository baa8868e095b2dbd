package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"VN30Radar/internal/backtest"
	"VN30Radar/internal/collector"
	"VN30Radar/internal/config"
	"VN30Radar/internal/ledger"
	"VN30Radar/internal/notifier"
	"VN30Radar/internal/runner"
	"VN30Radar/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] VN30Radar starting...")

	dateFlag := flag.String("date", "", "evaluation date YYYY-MM-DD (default: today)")
	symbolsFlag := flag.String("symbols", "", "comma-separated symbol filter (default: full basket)")
	daemonFlag := flag.Bool("daemon", false, "keep running and fire one run per session close")
	flag.Parse()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher: VCI primary with Yahoo fallback when a gateway is
	// configured, Yahoo alone otherwise.
	var fetcher collector.Fetcher
	yahoo := collector.NewYahooFetcher(cfg.Proxy)
	if cfg.DataSource.BaseURL != "" {
		fetcher = &collector.FallbackFetcher{
			Primary:   collector.NewVCIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy),
			Secondary: yahoo,
		}
	} else {
		fetcher = yahoo
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher)

	// Init ledger
	var led ledger.Ledger
	if cfg.Database.SQLitePath != "" {
		sl, err := ledger.NewSQLiteLedger(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite ledger failed, using noop: %v", err)
			led = ledger.NewNoopLedger()
		} else {
			led = sl
			defer sl.Close()
		}
	} else {
		led = ledger.NewNoopLedger()
	}

	verifier := backtest.NewVerifier(led, col)
	verifier.ExpirySessions = cfg.Backtest.ExpirySessions

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	run := &runner.Runner{
		Collector:    col,
		Ledger:       led,
		Verifier:     verifier,
		Notifier:     tn,
		Symbols:      cfg.Symbols,
		Lookback:     cfg.Analysis.LookbackSessions,
		MinLookback:  cfg.Analysis.MinLookbackSessions,
		FibTolerance: cfg.Analysis.FibTolerance,
		MonthsBack:   cfg.Analysis.MonthsBack,
		Workers:      cfg.Run.Workers,
		ReportsDir:   cfg.Reports.Dir,
		SummaryCSV:   cfg.Reports.SummaryCSV,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !*daemonFlag {
		evalDate := time.Now()
		if *dateFlag != "" {
			evalDate, err = time.Parse("2006-01-02", *dateFlag)
			if err != nil {
				log.Fatalf("[FATAL] invalid -date: %v", err)
			}
		}
		var symbols []string
		if *symbolsFlag != "" {
			for _, s := range strings.Split(*symbolsFlag, ",") {
				if s = strings.TrimSpace(s); s != "" {
					symbols = append(symbols, strings.ToUpper(s))
				}
			}
		}
		if err := run.Run(ctx, evalDate, symbols); err != nil {
			log.Fatalf("[FATAL] run: %v", err)
		}
		return
	}

	// Daemon mode: one run per session close.
	sched := scheduler.NewScheduler(ctx, run)
	if err := sched.RegisterDaily(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing run now")
		go sched.RunNow()
	}

	log.Println("[INFO] VN30Radar is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] VN30Radar stopped")
}
