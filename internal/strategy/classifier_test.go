package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VN30Radar/internal/model"
)

func day(n int) time.Time {
	return time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func flat(n int, p float64) []model.PriceBar {
	bars := make([]model.PriceBar, n)
	for i := range bars {
		bars[i] = model.PriceBar{Date: day(i), Open: p, High: p, Low: p, Close: p, Volume: 1000}
	}
	return bars
}

func upswingFib(high, low float64) *model.FibLevels {
	return fibWith(model.UpswingFromLow, high, low)
}

func downswingFib(high, low float64) *model.FibLevels {
	return fibWith(model.DownswingFromHigh, high, low)
}

func fibWith(dir model.SwingDirection, high, low float64) *model.FibLevels {
	ratios := []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}
	diff := high - low
	levels := make([]model.FibLevel, len(ratios))
	for i, r := range ratios {
		price := low + diff*r
		if dir == model.DownswingFromHigh {
			price = high - diff*r
		}
		levels[i] = model.FibLevel{Ratio: r, Price: price}
	}
	highDate, lowDate := day(0), day(1)
	if dir == model.DownswingFromHigh {
		highDate, lowDate = day(1), day(0)
	}
	return &model.FibLevels{
		Direction: dir,
		High:      model.SwingPoint{Date: highDate, Price: high, Kind: model.SwingHigh},
		Low:       model.SwingPoint{Date: lowDate, Price: low, Kind: model.SwingLow},
		Levels:    levels,
	}
}

func TestClassify_BullishBounce(t *testing.T) {
	bars := flat(5, 26.0)
	// A prior session touched the 0.5 level (25.00) and the close has moved
	// up since.
	bars[2] = model.PriceBar{Date: day(2), Open: 25.1, High: 25.2, Low: 24.9, Close: 25.0, Volume: 1000}

	pred := Classify("HPG", day(4), &Input{
		Bars: bars,
		Snapshot: &model.IndicatorSnapshot{
			SMA20Price:  25.5,
			PriceVsSMA:  model.PriceAboveSMA,
			VolumeRatio: 1.3,
			VolumeSpike: true,
			ATR:         1.0,
		},
		Fib: upswingFib(30, 20),
	})

	require.Equal(t, model.TrendBullish, pred.Trend)
	assert.InDelta(t, 26.18, pred.TargetPrice, 1e-9) // 0.618 level, nearest above
	assert.InDelta(t, 25.0, pred.StoplossPrice, 1e-9)
	assert.Greater(t, pred.TargetPrice, pred.ClosePrice)
	assert.Less(t, pred.StoplossPrice, pred.ClosePrice)
	// 60 base + 15 volume - 10 * (|26-25| / 1.0)
	assert.InDelta(t, 65.0, pred.SuccessProbability, 1e-9)
	assert.Contains(t, pred.Rationale, "above SMA20")
	assert.Contains(t, pred.Rationale, "50.0%")
	assert.Equal(t, model.OutcomeUnresolved, pred.Outcome)
}

func TestClassify_BullishNeedsVolumeConfirmation(t *testing.T) {
	bars := flat(5, 26.0)
	bars[2] = model.PriceBar{Date: day(2), Open: 25.1, High: 25.2, Low: 24.9, Close: 25.0, Volume: 1000}

	pred := Classify("HPG", day(4), &Input{
		Bars: bars,
		Snapshot: &model.IndicatorSnapshot{
			SMA20Price: 25.5,
			PriceVsSMA: model.PriceAboveSMA,
			ATR:        1.0,
		},
		Fib: upswingFib(30, 20),
	})
	assert.Equal(t, model.TrendSideways, pred.Trend)
}

func TestClassify_BearishRejection(t *testing.T) {
	bars := flat(5, 23.0)
	// Touched the 0.618 resistance (23.82) and closed down on the same
	// session.
	bars[2] = model.PriceBar{Date: day(2), Open: 23.8, High: 23.9, Low: 23.4, Close: 23.5, Volume: 1000}

	pred := Classify("VIC", day(4), &Input{
		Bars: bars,
		Snapshot: &model.IndicatorSnapshot{
			SMA20Price: 24.0,
			PriceVsSMA: model.PriceBelowSMA,
			ATR:        1.0,
		},
		Fib: downswingFib(30, 20),
	})

	require.Equal(t, model.TrendBearish, pred.Trend)
	assert.InDelta(t, 22.14, pred.TargetPrice, 1e-9) // 0.786 level, nearest below
	assert.InDelta(t, 23.82, pred.StoplossPrice, 1e-9)
	assert.Less(t, pred.TargetPrice, pred.ClosePrice)
	assert.Greater(t, pred.StoplossPrice, pred.ClosePrice)
	assert.Contains(t, pred.Rationale, "below SMA20")
}

func TestClassify_BearishRequiresDownswingStructure(t *testing.T) {
	bars := flat(5, 23.0)
	bars[2] = model.PriceBar{Date: day(2), Open: 23.8, High: 23.9, Low: 23.4, Close: 23.5, Volume: 1000}

	pred := Classify("VIC", day(4), &Input{
		Bars: bars,
		Snapshot: &model.IndicatorSnapshot{
			SMA20Price: 24.0,
			PriceVsSMA: model.PriceBelowSMA,
			ATR:        1.0,
		},
		Fib: upswingFib(30, 20), // no resistance structure to reject from
	})
	assert.Equal(t, model.TrendSideways, pred.Trend)
}

func TestClassify_SidewaysHasNoDirectionalCall(t *testing.T) {
	pred := Classify("FPT", day(4), &Input{
		Bars: flat(5, 25.0),
		Snapshot: &model.IndicatorSnapshot{
			SMA20Price: 25.5,
			PriceVsSMA: model.PriceAboveSMA,
		},
		Fib: upswingFib(30, 20),
	})

	require.Equal(t, model.TrendSideways, pred.Trend)
	assert.Equal(t, pred.ClosePrice, pred.TargetPrice)
	assert.Equal(t, pred.ClosePrice, pred.StoplossPrice)
	assert.Zero(t, pred.SuccessProbability)
}

func TestClassify_DemotesWhenCloseSitsAtAnchor(t *testing.T) {
	// A bullish setup with the close already at the 100% anchor leaves no
	// level to target; the verdict falls back to sideways.
	bars := flat(5, 30.0)
	bars[2] = model.PriceBar{Date: day(2), Open: 25.1, High: 25.2, Low: 24.9, Close: 25.0, Volume: 1000}

	pred := Classify("HPG", day(4), &Input{
		Bars: bars,
		Snapshot: &model.IndicatorSnapshot{
			SMA20Price:  28.0,
			PriceVsSMA:  model.PriceAboveSMA,
			VolumeRatio: 1.5,
			VolumeSpike: true,
			ATR:         1.0,
		},
		Fib: upswingFib(30, 20),
	})
	assert.Equal(t, model.TrendSideways, pred.Trend)
	assert.Zero(t, pred.SuccessProbability)
}

func TestSuccessProbability_Clamped(t *testing.T) {
	trigger := model.FibLevel{Ratio: 0.5, Price: 25.0}

	// Tiny ATR blows the distance penalty far past zero; clamp holds.
	snap := &model.IndicatorSnapshot{VolumeSpike: true, ATR: 0.01}
	assert.Zero(t, successProbability(snap, 26.0, trigger))

	// Zero ATR leaves the distance term out entirely.
	snap = &model.IndicatorSnapshot{VolumeSpike: true}
	assert.InDelta(t, 75.0, successProbability(snap, 26.0, trigger), 1e-9)

	snap = &model.IndicatorSnapshot{}
	assert.InDelta(t, 60.0, successProbability(snap, 25.0, trigger), 1e-9)
}

func TestRules_OrderIsBullishFirst(t *testing.T) {
	require.Len(t, rules, 2)
	assert.Equal(t, model.TrendBullish, rules[0].trend)
	assert.Equal(t, model.TrendBearish, rules[1].trend)
}
