package backtest

import (
	"log"
	"time"

	"VN30Radar/internal/ledger"
	"VN30Radar/internal/model"
)

// Provider supplies the realized price action used to resolve predictions.
// *collector.Collector satisfies it.
type Provider interface {
	History(symbol string, start, end time.Time) ([]model.PriceBar, error)
}

// Stats summarizes one verifier pass.
type Stats struct {
	Checked  int // unresolved rows examined
	Resolved int // rows that transitioned to correct/incorrect
	Correct  int
	Pending  int // rows left unresolved for a future run
	Skipped  int // sideways rows and rows with unavailable history
}

// Verifier resolves past predictions against subsequent realized prices. It
// reads only rows still unresolved, so re-running it against the same ledger
// snapshot is a no-op.
type Verifier struct {
	Ledger   ledger.Ledger
	Provider Provider

	// ExpirySessions bounds how long a prediction stays open. After that many
	// sessions without a target or stoploss touch the row resolves by the
	// direction of the realized close. Zero disables expiry and such rows
	// stay unresolved indefinitely.
	ExpirySessions int
}

// NewVerifier creates a verifier with expiry disabled.
func NewVerifier(l ledger.Ledger, p Provider) *Verifier {
	return &Verifier{Ledger: l, Provider: p}
}

// Run scans the ledger for unresolved predictions and resolves each against
// the bars between its date (exclusive) and evalDate. A provider failure for
// one row leaves it unresolved and never aborts the pass.
func (v *Verifier) Run(evalDate time.Time) (*Stats, error) {
	unresolved, err := v.Ledger.Unresolved()
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	history := make(map[string][]model.PriceBar)

	for _, p := range unresolved {
		stats.Checked++

		// Sideways rows carry target == stoploss == close; resolution is
		// meaningless and they are never touched.
		if !p.Directional() {
			stats.Skipped++
			continue
		}

		bars, ok := history[p.Symbol]
		if !ok {
			var err error
			// The fetch window starts on the prediction date itself; resolve
			// drops same-day bars. Starting a day later risks a source with
			// skewed session timestamps excluding the first real session.
			bars, err = v.Provider.History(p.Symbol, p.Date, evalDate)
			if err != nil {
				log.Printf("[WARN] backtest: history unavailable for %s: %v", p.Symbol, err)
				bars = nil
			}
			history[p.Symbol] = bars
		}
		if bars == nil {
			stats.Skipped++
			continue
		}

		outcome, resolved := v.resolve(&p, bars)
		if !resolved {
			stats.Pending++
			continue
		}
		if err := v.Ledger.Resolve(p.Date, p.Symbol, outcome); err != nil {
			log.Printf("[ERROR] backtest: resolve %s %s: %v", p.Date.Format(ledger.DateLayout), p.Symbol, err)
			continue
		}
		stats.Resolved++
		if outcome == model.OutcomeCorrect {
			stats.Correct++
		}
		log.Printf("[INFO] backtest: %s %s %s → %s",
			p.Date.Format(ledger.DateLayout), p.Symbol, p.Trend, outcome)
	}
	return stats, nil
}

// resolve scans bars after the prediction date in chronological order. A
// stoploss touch wins over a target touch on the same bar: the conservative
// tie-break.
func (v *Verifier) resolve(p *model.Prediction, bars []model.PriceBar) (model.Outcome, bool) {
	sessions := 0
	var lastClose float64

	for _, bar := range bars {
		// Compare calendar dates: ledger keys are midnight UTC while a
		// provider may stamp bars with intraday session times. A bar from
		// the prediction's own day never resolves it.
		if !sessionDate(bar.Date).After(p.Date) {
			continue
		}
		sessions++
		lastClose = bar.Close

		var hitTarget, hitStop bool
		if p.Trend == model.TrendBullish {
			hitTarget = bar.High >= p.TargetPrice
			hitStop = bar.Low <= p.StoplossPrice
		} else {
			hitTarget = bar.Low <= p.TargetPrice
			hitStop = bar.High >= p.StoplossPrice
		}

		if hitStop {
			return model.OutcomeIncorrect, true
		}
		if hitTarget {
			return model.OutcomeCorrect, true
		}

		if v.ExpirySessions > 0 && sessions >= v.ExpirySessions {
			return expireByDirection(p, lastClose), true
		}
	}
	return model.OutcomeUnresolved, false
}

// sessionDate reduces a timestamp to its calendar date in its own location,
// normalized to midnight UTC like ledger date keys.
func sessionDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// expireByDirection resolves a timed-out prediction by whether the realized
// close moved the predicted way at all.
func expireByDirection(p *model.Prediction, lastClose float64) model.Outcome {
	if p.Trend == model.TrendBullish && lastClose > p.ClosePrice {
		return model.OutcomeCorrect
	}
	if p.Trend == model.TrendBearish && lastClose < p.ClosePrice {
		return model.OutcomeCorrect
	}
	return model.OutcomeIncorrect
}
