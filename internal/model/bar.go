package model

import "time"

// PriceBar represents a single daily OHLCV bar.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
