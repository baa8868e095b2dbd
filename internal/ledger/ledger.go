package ledger

import (
	"time"

	"VN30Radar/internal/model"
)

// DateLayout is the canonical date key format for ledger rows.
const DateLayout = "2006-01-02"

// Ledger is the append-only prediction log. Rows are keyed by (date, symbol);
// Append never overwrites and Resolve is the only in-place edit, flipping the
// outcome of a still-unresolved row exactly once.
type Ledger interface {
	// Append adds a prediction row. Appending an existing (date, symbol) key
	// is a silent no-op: a prediction is created exactly once.
	Append(p *model.Prediction) error
	// Unresolved returns all rows whose outcome is still unresolved, ordered
	// by date then symbol.
	Unresolved() ([]model.Prediction, error)
	// Resolve sets the outcome of the (date, symbol) row. Rows already
	// resolved are left untouched.
	Resolve(date time.Time, symbol string, outcome model.Outcome) error
	// All returns every row ordered by date then symbol.
	All() ([]model.Prediction, error)
	Close() error
}
