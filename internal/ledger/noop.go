package ledger

import (
	"time"

	"VN30Radar/internal/model"
)

// NoopLedger is a no-op implementation used when SQLite is not configured.
type NoopLedger struct{}

func NewNoopLedger() *NoopLedger { return &NoopLedger{} }

func (n *NoopLedger) Append(_ *model.Prediction) error                       { return nil }
func (n *NoopLedger) Unresolved() ([]model.Prediction, error)                { return nil, nil }
func (n *NoopLedger) Resolve(_ time.Time, _ string, _ model.Outcome) error   { return nil }
func (n *NoopLedger) All() ([]model.Prediction, error)                       { return nil, nil }
func (n *NoopLedger) Close() error                                           { return nil }
