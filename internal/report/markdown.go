package report

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"VN30Radar/internal/model"
)

// Write renders the per-symbol daily report to
// <reportsDir>/<SYMBOL>/<YYYY-MM-DD>.md and returns the path. Reports are
// immutable once written: an existing file is left untouched.
func Write(reportsDir, symbol string, date time.Time, bars []model.PriceBar,
	snap *model.IndicatorSnapshot, fib *model.FibLevels, pred *model.Prediction) (string, error) {

	symbolDir := filepath.Join(reportsDir, symbol)
	if err := os.MkdirAll(symbolDir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(symbolDir, date.Format("2006-01-02")+".md")

	if _, err := os.Stat(path); err == nil {
		log.Printf("[INFO] report already exists, keeping: %s", path)
		return path, nil
	}

	content := build(symbol, date, bars, snap, fib, pred)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func build(symbol string, date time.Time, bars []model.PriceBar,
	snap *model.IndicatorSnapshot, fib *model.FibLevels, pred *model.Prediction) string {

	last := bars[len(bars)-1]
	pctChange := 0.0
	if len(bars) >= 2 && bars[len(bars)-2].Close != 0 {
		prev := bars[len(bars)-2].Close
		pctChange = (last.Close - prev) / prev * 100
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Technical Analysis Report: %s\n", symbol))
	b.WriteString(fmt.Sprintf("**Session date:** %s\n\n---\n\n", date.Format("2006-01-02")))

	b.WriteString("## 1. Session\n\n")
	b.WriteString("| Field | Value |\n|:------|:------|\n")
	b.WriteString(fmt.Sprintf("| Symbol | **%s** |\n", symbol))
	b.WriteString(fmt.Sprintf("| Close | **%.2f** |\n", last.Close))
	b.WriteString(fmt.Sprintf("| Change | %+.2f%% |\n", pctChange))
	b.WriteString(fmt.Sprintf("| Volume | %.0f |\n\n---\n\n", last.Volume))

	b.WriteString("## 2. SMA20\n\n")
	b.WriteString("| Field | Value |\n|:------|:------|\n")
	b.WriteString(fmt.Sprintf("| SMA20 | %.2f |\n", snap.SMA20Price))
	position := "**Below SMA20**"
	if snap.PriceVsSMA == model.PriceAboveSMA {
		position = "**Above SMA20**"
	}
	b.WriteString(fmt.Sprintf("| Price position | %s |\n", position))
	b.WriteString(fmt.Sprintf("| Volume SMA20 | %.0f |\n", snap.SMA20Volume))
	volumeNote := "normal"
	if snap.VolumeSpike {
		volumeNote = fmt.Sprintf("**spike** (%.2fx)", snap.VolumeRatio)
	}
	b.WriteString(fmt.Sprintf("| Volume signal | %s |\n\n---\n\n", volumeNote))

	b.WriteString("## 3. Fibonacci Retracement\n\n")
	b.WriteString(fmt.Sprintf("**Swing high:** %.2f (%s) | **Swing low:** %.2f (%s) | structure: %s\n\n",
		fib.High.Price, fib.High.Date.Format("2006-01-02"),
		fib.Low.Price, fib.Low.Date.Format("2006-01-02"), fib.Direction))
	b.WriteString("| Ratio | Price |\n|:------|------:|\n")

	support, hasSupport := nearestBelow(fib, last.Close)
	resistance, hasResistance := nearestAbove(fib, last.Close)
	for _, lvl := range fib.Levels {
		tag := ""
		if hasSupport && lvl == support {
			tag = " ← nearest support"
		} else if hasResistance && lvl == resistance {
			tag = " ← nearest resistance"
		}
		b.WriteString(fmt.Sprintf("| %.3f | %.2f%s |\n", lvl.Ratio, lvl.Price, tag))
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## 4. Prediction\n\n")
	b.WriteString("| Field | Value |\n|:------|:------|\n")
	b.WriteString(fmt.Sprintf("| Trend | **%s** |\n", pred.Trend))
	b.WriteString(fmt.Sprintf("| Target | **%.2f** |\n", pred.TargetPrice))
	b.WriteString(fmt.Sprintf("| Stoploss | **%.2f** |\n", pred.StoplossPrice))
	b.WriteString(fmt.Sprintf("| Success probability | **%.1f%%** (heuristic) |\n\n", pred.SuccessProbability))
	b.WriteString("### Rationale\n\n")
	b.WriteString(pred.Rationale)
	b.WriteString("\n")

	return b.String()
}

func nearestAbove(fib *model.FibLevels, price float64) (model.FibLevel, bool) {
	var best model.FibLevel
	found := false
	for _, lvl := range fib.Levels {
		if lvl.Price > price && (!found || lvl.Price < best.Price) {
			best = lvl
			found = true
		}
	}
	return best, found
}

func nearestBelow(fib *model.FibLevels, price float64) (model.FibLevel, bool) {
	var best model.FibLevel
	found := false
	for _, lvl := range fib.Levels {
		if lvl.Price < price && (!found || lvl.Price > best.Price) {
			best = lvl
			found = true
		}
	}
	return best, found
}
