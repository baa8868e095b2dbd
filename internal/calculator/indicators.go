package calculator

import (
	"errors"

	"VN30Radar/internal/model"
)

const (
	// SMAPeriod is the number of sessions in the simple moving averages.
	SMAPeriod = 20
	// VolumeSpikeRatio is the strict threshold above which the latest volume
	// counts as a spike relative to its 20-session average.
	VolumeSpikeRatio = 1.2
	// ATRPeriod is the lookback for the average true range.
	ATRPeriod = 14
)

// ErrInsufficientData is returned when a window is too short for the
// 20-session averages. Per-symbol and recoverable: skip the symbol this run.
var ErrInsufficientData = errors.New("insufficient data for indicator calculation")

// CalculateSMA computes the simple moving average of the last `period` values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// Snapshot computes the indicator state for the last bar of the series.
// Requires at least SMAPeriod bars. Pure: no side effects, deterministic
// for a given window.
func Snapshot(bars []model.PriceBar) (*model.IndicatorSnapshot, error) {
	if len(bars) < SMAPeriod {
		return nil, ErrInsufficientData
	}

	closes := extractCloses(bars)
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}

	smaPrice, err := CalculateSMA(closes, SMAPeriod)
	if err != nil {
		return nil, err
	}
	smaVolume, err := CalculateSMA(volumes, SMAPeriod)
	if err != nil {
		return nil, err
	}

	last := bars[len(bars)-1]

	// Equality resolves to below: the cautious side of the tie.
	pos := model.PriceBelowSMA
	if last.Close > smaPrice {
		pos = model.PriceAboveSMA
	}

	var ratio float64
	if smaVolume > 0 {
		ratio = last.Volume / smaVolume
	}

	return &model.IndicatorSnapshot{
		SMA20Price:  smaPrice,
		PriceVsSMA:  pos,
		SMA20Volume: smaVolume,
		VolumeRatio: ratio,
		VolumeSpike: ratio > VolumeSpikeRatio,
		ATR:         CalculateATR(bars, ATRPeriod),
	}, nil
}

func extractCloses(bars []model.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
