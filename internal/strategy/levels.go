package strategy

import (
	"fmt"
	"math"

	"VN30Radar/internal/model"
)

const (
	baseProbability  = 60.0
	volumeConfirmPts = 15.0
	distancePenalty  = 10.0
)

// projectLevels derives the target and stoploss for a directional verdict.
// Bullish: target is the nearest level above the close (the top anchor bounds
// it), stoploss the nearest level below (the swing low if none). Bearish is
// the mirror image. Returns ok=false when the close already sits on or beyond
// the outermost level on either side.
func projectLevels(trend model.Trend, fib *model.FibLevels, close float64) (target, stoploss float64, ok bool) {
	above, hasAbove := nearestAbove(fib, close)
	below, hasBelow := nearestBelow(fib, close)

	switch trend {
	case model.TrendBullish:
		target = fib.High.Price
		if hasAbove {
			target = above.Price
		}
		stoploss = fib.Low.Price
		if hasBelow {
			stoploss = below.Price
		}
		ok = target > close && stoploss < close
	case model.TrendBearish:
		target = fib.Low.Price
		if hasBelow {
			target = below.Price
		}
		stoploss = fib.High.Price
		if hasAbove {
			stoploss = above.Price
		}
		ok = target < close && stoploss > close
	}
	return target, stoploss, ok
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

// successProbability scores how close the price already sits to its trigger
// level, scaled by volume confirmation. Heuristic only: monotonic in the
// inputs and clamped to [0, 100], never a calibrated estimate. A zero ATR
// leaves the distance term out entirely.
func successProbability(snap *model.IndicatorSnapshot, close float64, trigger model.FibLevel) float64 {
	p := baseProbability
	if snap.VolumeSpike {
		p += volumeConfirmPts
	}
	if snap.ATR > 0 {
		p -= distancePenalty * math.Abs(close-trigger.Price) / snap.ATR
	}
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// buildRationale produces the deterministic audit text for a verdict, citing
// the SMA relation and the Fibonacci level that drove it.
func buildRationale(trend model.Trend, snap *model.IndicatorSnapshot, trigger model.FibLevel, close float64) string {
	switch trend {
	case model.TrendBullish:
		return fmt.Sprintf(
			"Close %.2f holds above SMA20 %.2f with volume at %.2fx its 20-session average; "+
				"price bounced from the %.1f%% retracement level at %.2f.",
			close, snap.SMA20Price, snap.VolumeRatio, trigger.Ratio*100, trigger.Price)
	case model.TrendBearish:
		return fmt.Sprintf(
			"Close %.2f broke below SMA20 %.2f; price touched the %.1f%% retracement level at %.2f "+
				"and reversed downward.",
			close, snap.SMA20Price, trigger.Ratio*100, trigger.Price)
	default:
		return fmt.Sprintf(
			"Close %.2f against SMA20 %.2f shows no confirmed setup; no directional call.",
			close, snap.SMA20Price)
	}
}
