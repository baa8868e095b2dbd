package collector

import (
	"errors"
	"time"

	"VN30Radar/internal/model"
)

// ErrDataUnavailable is returned when no source can supply a symbol's history.
// Per-symbol and recoverable: the pipeline skips the symbol for the current
// run and continues with the next one.
var ErrDataUnavailable = errors.New("price history unavailable")

// Fetcher defines the price series provider: an ordered daily OHLCV history
// for a symbol between two dates, inclusive.
type Fetcher interface {
	FetchDailyBars(symbol string, start, end time.Time) ([]model.PriceBar, error)
	Name() string
}
