package strategy

import "VN30Radar/internal/model"

// matchBullishBounce fires when price holds above its SMA20 on confirming
// volume after bouncing from the 0.5 or 0.618 retracement level: some prior
// session in the window touched the level and the evaluation close has moved
// up from that session's close.
func matchBullishBounce(in *Input) (model.FibLevel, bool) {
	if in.Snapshot.PriceVsSMA != model.PriceAboveSMA || !in.Snapshot.VolumeSpike {
		return model.FibLevel{}, false
	}

	last := in.Bars[len(in.Bars)-1]
	supports := levelsByRatio(in.Fib, 0.5, 0.618)

	// Most recent touch wins; 0.5 is checked before 0.618 on the same session.
	for i := len(in.Bars) - 2; i >= 0; i-- {
		bar := in.Bars[i]
		for _, lvl := range supports {
			if barTouches(bar, lvl.Price, in.Tolerance) && last.Close > bar.Close {
				return lvl, true
			}
		}
	}
	return model.FibLevel{}, false
}

// matchBearishRejection fires when price has broken below its SMA20 after
// touching a resistance level (any level above the current close in a
// downswing-from-high structure) and reversing downward on the same or the
// following session.
func matchBearishRejection(in *Input) (model.FibLevel, bool) {
	if in.Snapshot.PriceVsSMA != model.PriceBelowSMA {
		return model.FibLevel{}, false
	}
	if in.Fib.Direction != model.DownswingFromHigh {
		return model.FibLevel{}, false
	}

	close := in.Bars[len(in.Bars)-1].Close
	var resistances []model.FibLevel
	for _, lvl := range in.Fib.Levels {
		if lvl.Price > close {
			resistances = append(resistances, lvl)
		}
	}
	if len(resistances) == 0 {
		return model.FibLevel{}, false
	}

	for i := len(in.Bars) - 1; i >= 0; i-- {
		bar := in.Bars[i]
		for _, lvl := range resistances {
			if !barTouches(bar, lvl.Price, in.Tolerance) {
				continue
			}
			// Reversal on the touch session itself...
			if bar.Close < bar.Open {
				return lvl, true
			}
			// ...or on the following session.
			if i+1 < len(in.Bars) && in.Bars[i+1].Close < bar.Close {
				return lvl, true
			}
		}
	}
	return model.FibLevel{}, false
}

// barTouches reports whether the bar's range intersects the tolerance band
// around the level price.
func barTouches(bar model.PriceBar, level, tolerance float64) bool {
	if level <= 0 {
		return false
	}
	lo := level * (1 - tolerance)
	hi := level * (1 + tolerance)
	return bar.Low <= hi && bar.High >= lo
}

func levelsByRatio(fib *model.FibLevels, ratios ...float64) []model.FibLevel {
	var out []model.FibLevel
	for _, r := range ratios {
		for _, lvl := range fib.Levels {
			if lvl.Ratio == r {
				out = append(out, lvl)
			}
		}
	}
	return out
}
