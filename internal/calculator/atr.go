package calculator

import (
	"math"

	"VN30Radar/internal/model"
)

// CalculateATR computes the Wilder-smoothed average true range over the given
// period. Requires at least period+1 bars; returns 0 when data is insufficient
// so callers can treat the range as unknown.
func CalculateATR(bars []model.PriceBar, period int) float64 {
	if period <= 0 || len(bars) < period+1 {
		return 0
	}

	// Initial average over the first `period` true ranges
	var atr float64
	for i := 1; i <= period; i++ {
		atr += trueRange(bars[i], bars[i-1].Close)
	}
	atr /= float64(period)

	// Wilder smoothing for remaining bars
	for i := period + 1; i < len(bars); i++ {
		tr := trueRange(bars[i], bars[i-1].Close)
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return atr
}

func trueRange(bar model.PriceBar, prevClose float64) float64 {
	tr := bar.High - bar.Low
	if hc := math.Abs(bar.High - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(bar.Low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}
