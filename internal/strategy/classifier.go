package strategy

import (
	"time"

	"VN30Radar/internal/model"
)

// DefaultTolerance is the proximity band around a Fibonacci level within
// which a bar counts as touching it.
const DefaultTolerance = 0.01

// Input bundles everything the classifier reads for one symbol on one session.
// Bars is the full lookback window, ascending; the last bar is the evaluation
// session.
type Input struct {
	Bars      []model.PriceBar
	Snapshot  *model.IndicatorSnapshot
	Fib       *model.FibLevels
	Tolerance float64
}

// rule is one entry of the ordered decision table. The first rule whose
// matcher fires decides the trend; the trigger level it returns is the
// support/resistance that drove the verdict.
type rule struct {
	trend model.Trend
	match func(*Input) (model.FibLevel, bool)
}

// rules is evaluated top to bottom; order is the tie-break and must not be
// reordered.
var rules = []rule{
	{model.TrendBullish, matchBullishBounce},
	{model.TrendBearish, matchBearishRejection},
}

// Classify produces one unresolved Prediction for (date, symbol). It has no
// side effects; persisting the record is the caller's responsibility.
//
// The success probability is a heuristic confidence score, not a statistical
// estimate.
func Classify(symbol string, date time.Time, in *Input) *model.Prediction {
	if in.Tolerance <= 0 {
		in.Tolerance = DefaultTolerance
	}
	close := in.Bars[len(in.Bars)-1].Close

	pred := &model.Prediction{
		Date:       date,
		Symbol:     symbol,
		ClosePrice: close,
		Outcome:    model.OutcomeUnresolved,
	}

	for _, r := range rules {
		trigger, ok := r.match(in)
		if !ok {
			continue
		}
		target, stoploss, ok := projectLevels(r.trend, in.Fib, close)
		if !ok {
			// Close sits at an anchor: no level left on the target or
			// stoploss side, so a directional call cannot hold its
			// target/stoploss invariant. Demote to sideways.
			break
		}
		pred.Trend = r.trend
		pred.TargetPrice = target
		pred.StoplossPrice = stoploss
		pred.SuccessProbability = successProbability(in.Snapshot, close, trigger)
		pred.Rationale = buildRationale(r.trend, in.Snapshot, trigger, close)
		return pred
	}

	pred.Trend = model.TrendSideways
	pred.TargetPrice = close
	pred.StoplossPrice = close
	pred.SuccessProbability = 0
	pred.Rationale = buildRationale(model.TrendSideways, in.Snapshot, model.FibLevel{}, close)
	return pred
}
