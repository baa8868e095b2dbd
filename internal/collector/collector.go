package collector

import (
	"fmt"
	"log"
	"time"

	"VN30Radar/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars map[string][]model.PriceBar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(symbol string, start, end time.Time) ([]model.PriceBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	bars := m.Bars[symbol]
	var out []model.PriceBar
	for _, b := range bars {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// FallbackFetcher tries the primary source first and falls back to the
// secondary when the primary fails or returns nothing.
type FallbackFetcher struct {
	Primary   Fetcher
	Secondary Fetcher
}

func (f *FallbackFetcher) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

func (f *FallbackFetcher) FetchDailyBars(symbol string, start, end time.Time) ([]model.PriceBar, error) {
	bars, err := f.Primary.FetchDailyBars(symbol, start, end)
	if err == nil && len(bars) > 0 {
		return bars, nil
	}
	if err != nil {
		log.Printf("[WARN] %s failed for %s: %v, trying %s", f.Primary.Name(), symbol, err, f.Secondary.Name())
	}
	bars, err2 := f.Secondary.FetchDailyBars(symbol, start, end)
	if err2 == nil && len(bars) > 0 {
		return bars, nil
	}
	return nil, fmt.Errorf("both sources failed for %s: %s: %s; %s: %s",
		symbol, f.Primary.Name(), failReason(err), f.Secondary.Name(), failReason(err2))
}

// failReason names why a source yielded nothing: its error, or an empty
// answer without one.
func failReason(err error) string {
	if err != nil {
		return err.Error()
	}
	return "empty history"
}

// Collector wraps a Fetcher and surfaces failures as the recoverable
// ErrDataUnavailable taxonomy.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// History fetches the ordered daily history for symbol between start and end,
// trimmed so no bar falls after end. Bar dates are normalized to midnight UTC
// of their calendar day so they compare exactly against ledger date keys.
func (c *Collector) History(symbol string, start, end time.Time) ([]model.PriceBar, error) {
	bars, err := c.Fetcher.FetchDailyBars(symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s: empty history", ErrDataUnavailable, symbol)
	}
	normalizeDates(bars)
	for len(bars) > 0 && bars[len(bars)-1].Date.After(end) {
		bars = bars[:len(bars)-1]
	}
	return bars, nil
}

// normalizeDates truncates session timestamps to the calendar date in their
// own location. Sources stamp bars with intraday times (the 09:15 ICT open,
// say), which must not leak into date comparisons.
func normalizeDates(bars []model.PriceBar) {
	for i := range bars {
		y, m, d := bars[i].Date.Date()
		bars[i].Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}
