package model

import "time"

// Trend is the classifier's verdict for one symbol on one session.
type Trend string

const (
	TrendBullish  Trend = "bullish"
	TrendBearish  Trend = "bearish"
	TrendSideways Trend = "sideways"
)

// Outcome is the resolution state of a prediction. It starts Unresolved and
// transitions at most once, to Correct or Incorrect, never back.
type Outcome string

const (
	OutcomeUnresolved Outcome = "unresolved"
	OutcomeCorrect    Outcome = "correct"
	OutcomeIncorrect  Outcome = "incorrect"
)

// Prediction is one ledger row: the directional call made for (date, symbol)
// at session close. The backtest verifier is the only writer of Outcome.
type Prediction struct {
	Date               time.Time
	Symbol             string
	ClosePrice         float64
	Trend              Trend
	TargetPrice        float64
	StoplossPrice      float64
	SuccessProbability float64 // heuristic score 0-100, not a calibrated probability
	Rationale          string
	Outcome            Outcome
}

// Directional reports whether the prediction makes an actual directional call.
// Sideways rows carry target == stoploss == close and are never resolved.
func (p *Prediction) Directional() bool {
	return p.Trend == TrendBullish || p.Trend == TrendBearish
}
