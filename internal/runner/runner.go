package runner

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sync"
	"time"

	"VN30Radar/internal/backtest"
	"VN30Radar/internal/calculator"
	"VN30Radar/internal/collector"
	"VN30Radar/internal/ledger"
	"VN30Radar/internal/model"
	"VN30Radar/internal/notifier"
	"VN30Radar/internal/report"
	"VN30Radar/internal/strategy"
)

// SymbolResult is the per-symbol outcome of one run: either a prediction or a
// skip with its reason. Failures are values, not panics or aborts, so the
// batch loop continues deterministically.
type SymbolResult struct {
	Symbol     string
	Prediction *model.Prediction
	SkipReason string
}

// Skipped reports whether the symbol produced no prediction this run.
func (r *SymbolResult) Skipped() bool { return r.Prediction == nil }

// Runner executes one full evaluation run: fan out the per-symbol pipeline,
// append predictions to the ledger, then verify past predictions and publish
// the summary artifacts.
type Runner struct {
	Collector *collector.Collector
	Ledger    ledger.Ledger
	Verifier  *backtest.Verifier
	Notifier  *notifier.TelegramNotifier

	Symbols      []string
	Lookback     int
	MinLookback  int
	FibTolerance float64
	MonthsBack   int
	Workers      int
	ReportsDir   string
	SummaryCSV   string
}

// Run processes every symbol for the given evaluation date. A failing symbol
// never aborts the batch. The verifier runs strictly after all of this run's
// predictions are appended.
func (r *Runner) Run(ctx context.Context, evalDate time.Time, symbols []string) error {
	if len(symbols) == 0 {
		symbols = r.Symbols
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(symbols) {
		workers = len(symbols)
	}

	log.Printf("[INFO] run starting: date=%s symbols=%d workers=%d",
		evalDate.Format("2006-01-02"), len(symbols), workers)

	jobs := make(chan string)
	results := make(chan SymbolResult, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				select {
				case <-ctx.Done():
					results <- SymbolResult{Symbol: symbol, SkipReason: "run cancelled"}
					continue
				default:
				}
				results <- r.processSymbol(symbol, evalDate)
			}
		}()
	}
	for _, s := range symbols {
		jobs <- s
	}
	close(jobs)
	wg.Wait()
	close(results)

	summary := &notifier.RunSummary{
		Date:   evalDate,
		Total:  len(symbols),
		Failed: make(map[string]string),
	}
	for res := range results {
		if res.Skipped() {
			summary.Failed[res.Symbol] = res.SkipReason
			continue
		}
		summary.Processed++
		switch res.Prediction.Trend {
		case model.TrendBullish:
			summary.Bullish = append(summary.Bullish, res.Symbol)
		case model.TrendBearish:
			summary.Bearish = append(summary.Bearish, res.Symbol)
		}
	}

	// All appends for this run are done; now resolve past predictions.
	stats, err := r.Verifier.Run(evalDate)
	if err != nil {
		log.Printf("[ERROR] backtest pass failed: %v", err)
	} else {
		summary.BacktestChecked = stats.Checked
		summary.BacktestResolved = stats.Resolved
		summary.BacktestCorrect = stats.Correct
		summary.BacktestPending = stats.Pending
	}

	if r.SummaryCSV != "" {
		if err := ledger.ExportCSV(r.Ledger, r.SummaryCSV); err != nil {
			log.Printf("[ERROR] export summary csv: %v", err)
		}
	}

	if r.Notifier != nil && r.Notifier.Enabled() {
		if err := r.Notifier.SendWithRetry(ctx, notifier.FormatRunSummary(summary), 3); err != nil {
			log.Printf("[ERROR] send run summary: %v", err)
		}
	}

	log.Printf("[INFO] run complete: %d/%d symbols processed, %d bullish, %d bearish, %d skipped",
		summary.Processed, summary.Total, len(summary.Bullish), len(summary.Bearish), len(summary.Failed))
	return nil
}

// processSymbol runs the fetch → indicators → swing → classify → persist
// pipeline for one symbol. Every error path returns a skip reason instead of
// propagating.
func (r *Runner) processSymbol(symbol string, evalDate time.Time) SymbolResult {
	start := evalDate.AddDate(0, -r.MonthsBack, 0)
	bars, err := r.Collector.History(symbol, start, evalDate)
	if err != nil {
		log.Printf("[WARN] %s: %v", symbol, err)
		return SymbolResult{Symbol: symbol, SkipReason: skipReason(err)}
	}

	snap, err := calculator.Snapshot(bars)
	if err != nil {
		log.Printf("[WARN] %s: %v", symbol, err)
		return SymbolResult{Symbol: symbol, SkipReason: skipReason(err)}
	}

	fib, err := calculator.DetectSwing(bars, r.Lookback, r.MinLookback)
	if err != nil {
		log.Printf("[WARN] %s: %v", symbol, err)
		return SymbolResult{Symbol: symbol, SkipReason: skipReason(err)}
	}

	window := bars
	if len(window) > r.Lookback {
		window = window[len(window)-r.Lookback:]
	}

	// The prediction is dated to the last realized session, not the wall
	// clock: evalDate may fall on a holiday.
	sessionDate := window[len(window)-1].Date

	pred := strategy.Classify(symbol, sessionDate, &strategy.Input{
		Bars:      window,
		Snapshot:  snap,
		Fib:       fib,
		Tolerance: r.FibTolerance,
	})

	if err := r.Ledger.Append(pred); err != nil {
		log.Printf("[ERROR] %s: append prediction: %v", symbol, err)
		return SymbolResult{Symbol: symbol, SkipReason: "ledger append failed"}
	}

	if r.ReportsDir != "" {
		if _, err := report.Write(r.ReportsDir, symbol, sessionDate, window, snap, fib, pred); err != nil {
			log.Printf("[ERROR] %s: write report: %v", symbol, err)
		}
	}

	log.Printf("[INFO] %s → %s | close: %.2f | target: %.2f | sl: %.2f | prob: %.1f%%",
		symbol, pred.Trend, pred.ClosePrice, pred.TargetPrice, pred.StoplossPrice, pred.SuccessProbability)
	return SymbolResult{Symbol: symbol, Prediction: pred}
}

// skipReason maps the error taxonomy to the short reason recorded per symbol.
func skipReason(err error) string {
	switch {
	case errors.Is(err, collector.ErrDataUnavailable):
		return "data unavailable"
	case errors.Is(err, calculator.ErrInsufficientData):
		return "insufficient data"
	case errors.Is(err, calculator.ErrNoSwingFound):
		return "no swing found"
	default:
		return err.Error()
	}
}
