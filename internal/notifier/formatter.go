package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RunSummary carries the per-run counts pushed after a batch completes.
type RunSummary struct {
	Date      time.Time
	Total     int
	Processed int
	Bullish   []string          // symbols with a bullish call
	Bearish   []string          // symbols with a bearish call
	Failed    map[string]string // symbol → skip reason

	BacktestChecked  int
	BacktestResolved int
	BacktestCorrect  int
	BacktestPending  int
}

// FormatRunSummary renders the end-of-run Telegram message.
func FormatRunSummary(s *RunSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>VN30Radar daily run</b> | %s\n\n", s.Date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Symbols processed: %d/%d\n\n", s.Processed, s.Total))

	b.WriteString(fmt.Sprintf("🟢 Bullish (%d): %s\n", len(s.Bullish), joinOrNone(s.Bullish)))
	b.WriteString(fmt.Sprintf("🔴 Bearish (%d): %s\n", len(s.Bearish), joinOrNone(s.Bearish)))

	if len(s.Failed) > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ Skipped (%d):\n", len(s.Failed)))
		symbols := make([]string, 0, len(s.Failed))
		for sym := range s.Failed {
			symbols = append(symbols, sym)
		}
		sort.Strings(symbols)
		for _, sym := range symbols {
			b.WriteString(fmt.Sprintf("  %s: %s\n", sym, s.Failed[sym]))
		}
	}

	b.WriteString(fmt.Sprintf("\n🔎 Backtest: %d checked, %d resolved (%d correct), %d pending\n",
		s.BacktestChecked, s.BacktestResolved, s.BacktestCorrect, s.BacktestPending))

	return b.String()
}

func joinOrNone(symbols []string) string {
	if len(symbols) == 0 {
		return "none"
	}
	return strings.Join(symbols, ", ")
}
