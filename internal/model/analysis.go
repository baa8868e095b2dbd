package model

import "time"

// PricePosition describes where the latest close sits relative to the SMA20.
type PricePosition string

const (
	PriceAboveSMA PricePosition = "above"
	PriceBelowSMA PricePosition = "below"
)

// IndicatorSnapshot holds the moving-average state computed for one session.
// It is recomputed on every run and never persisted.
type IndicatorSnapshot struct {
	SMA20Price  float64
	PriceVsSMA  PricePosition
	SMA20Volume float64
	VolumeRatio float64 // latest volume / SMA20Volume
	VolumeSpike bool    // VolumeRatio > 1.2
	ATR         float64 // average true range, used by the probability heuristic
}

// SwingKind marks a swing point as a high or a low.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint is an extreme price within the lookback window.
type SwingPoint struct {
	Date  time.Time
	Price float64
	Kind  SwingKind
}

// SwingDirection describes which anchor the retracement is measured from.
type SwingDirection string

const (
	// UpswingFromLow: the low is the more recent extreme; retracement is
	// measured upward from the low toward the high.
	UpswingFromLow SwingDirection = "upswing_from_low"
	// DownswingFromHigh: the high is the more recent extreme; retracement is
	// measured downward from the high toward the low.
	DownswingFromHigh SwingDirection = "downswing_from_high"
)

// FibLevel is one retracement level: a fixed ratio and its derived price.
type FibLevel struct {
	Ratio float64
	Price float64
}

// FibLevels holds the retracement levels between one swing high/low pair.
// Levels are ordered by ratio ascending and always include the 0% and 100%
// anchors alongside the five intermediate ratios.
type FibLevels struct {
	Direction SwingDirection
	High      SwingPoint
	Low       SwingPoint
	Levels    []FibLevel
}

// NearestLevel returns the level whose price is closest to the given price.
// Ties resolve to the lower ratio.
func (f *FibLevels) NearestLevel(price float64) FibLevel {
	best := f.Levels[0]
	bestDist := abs(best.Price - price)
	for _, lvl := range f.Levels[1:] {
		d := abs(lvl.Price - price)
		if d < bestDist {
			best = lvl
			bestDist = d
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
