package calculator

import (
	"errors"

	"VN30Radar/internal/model"
)

const (
	// DefaultLookback is the swing detection window: ~6 months of sessions.
	DefaultLookback = 126
	// MinLookback is the smallest acceptable window: ~3 months of sessions.
	MinLookback = 63
)

// FibRatios are the intermediate retracement ratios, ascending. The 0% and
// 100% anchors are added on top of these.
var FibRatios = []float64{0.236, 0.382, 0.5, 0.618, 0.786}

// ErrNoSwingFound is returned for windows too short to anchor a retracement,
// or for flat series where high == low.
var ErrNoSwingFound = errors.New("no swing high/low pair found in lookback window")

// DetectSwing scans the last `lookback` bars once, tracking the running
// maximum high and minimum low, and derives the Fibonacci retracement levels
// between them.
//
// Direction follows the more recent of the two extremes: a more recent low
// means an upswing-from-low (levels measured upward from the low), a more
// recent high means a downswing-from-high (levels measured downward from the
// high). When both extremes fall on the same date the window resolves to
// upswing-from-low.
func DetectSwing(bars []model.PriceBar, lookback, minBars int) (*model.FibLevels, error) {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if minBars <= 0 {
		minBars = MinLookback
	}

	window := bars
	if len(window) > lookback {
		window = window[len(window)-lookback:]
	}
	if len(window) < minBars {
		return nil, ErrNoSwingFound
	}

	high := model.SwingPoint{Date: window[0].Date, Price: window[0].High, Kind: model.SwingHigh}
	low := model.SwingPoint{Date: window[0].Date, Price: window[0].Low, Kind: model.SwingLow}
	for _, b := range window[1:] {
		if b.High > high.Price {
			high.Date = b.Date
			high.Price = b.High
		}
		if b.Low < low.Price {
			low.Date = b.Date
			low.Price = b.Low
		}
	}

	if high.Price == low.Price {
		return nil, ErrNoSwingFound
	}

	direction := model.UpswingFromLow
	if high.Date.After(low.Date) {
		direction = model.DownswingFromHigh
	}

	return &model.FibLevels{
		Direction: direction,
		High:      high,
		Low:       low,
		Levels:    buildLevels(direction, high.Price, low.Price),
	}, nil
}

// buildLevels produces the 0% anchor, the five intermediate ratios, and the
// 100% anchor, ordered by ratio ascending. The price formula is
// direction-sensitive: downswings retrace from the high, upswings from the low.
func buildLevels(direction model.SwingDirection, high, low float64) []model.FibLevel {
	diff := high - low
	ratios := make([]float64, 0, len(FibRatios)+2)
	ratios = append(ratios, 0.0)
	ratios = append(ratios, FibRatios...)
	ratios = append(ratios, 1.0)

	levels := make([]model.FibLevel, len(ratios))
	for i, r := range ratios {
		var price float64
		if direction == model.DownswingFromHigh {
			price = high - diff*r
		} else {
			price = low + diff*r
		}
		levels[i] = model.FibLevel{Ratio: r, Price: price}
	}
	return levels
}
