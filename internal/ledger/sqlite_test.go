package ledger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VN30Radar/internal/model"
)

func openTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	l, err := NewSQLiteLedger(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func samplePrediction(date time.Time, symbol string) *model.Prediction {
	return &model.Prediction{
		Date:               date,
		Symbol:             symbol,
		Trend:              model.TrendBullish,
		ClosePrice:         26.0,
		TargetPrice:        26.18,
		StoplossPrice:      25.0,
		SuccessProbability: 65,
		Rationale:          "test rationale",
		Outcome:            model.OutcomeUnresolved,
	}
}

func TestSQLiteLedger_AppendAndReadBack(t *testing.T) {
	l := openTestLedger(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, l.Append(samplePrediction(date, "HPG")))

	preds, err := l.All()
	require.NoError(t, err)
	require.Len(t, preds, 1)
	p := preds[0]
	assert.Equal(t, "HPG", p.Symbol)
	assert.True(t, p.Date.Equal(date))
	assert.Equal(t, model.TrendBullish, p.Trend)
	assert.Equal(t, 26.18, p.TargetPrice)
	assert.Equal(t, 25.0, p.StoplossPrice)
	assert.Equal(t, 65.0, p.SuccessProbability)
	assert.Equal(t, "test rationale", p.Rationale)
	assert.Equal(t, model.OutcomeUnresolved, p.Outcome)
}

func TestSQLiteLedger_DuplicateAppendIsNoop(t *testing.T) {
	l := openTestLedger(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, l.Append(samplePrediction(date, "HPG")))

	dup := samplePrediction(date, "HPG")
	dup.TargetPrice = 99.0
	require.NoError(t, l.Append(dup))

	preds, err := l.All()
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, 26.18, preds[0].TargetPrice, "first write wins")
}

func TestSQLiteLedger_UnresolvedFilters(t *testing.T) {
	l := openTestLedger(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, l.Append(samplePrediction(date, "HPG")))
	require.NoError(t, l.Append(samplePrediction(date, "VNM")))
	require.NoError(t, l.Resolve(date, "HPG", model.OutcomeCorrect))

	unresolved, err := l.Unresolved()
	require.NoError(t, err)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "VNM", unresolved[0].Symbol)
}

func TestSQLiteLedger_ResolveOnlyOnce(t *testing.T) {
	l := openTestLedger(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, l.Append(samplePrediction(date, "HPG")))
	require.NoError(t, l.Resolve(date, "HPG", model.OutcomeCorrect))
	// A second resolve must not flip the settled outcome.
	require.NoError(t, l.Resolve(date, "HPG", model.OutcomeIncorrect))

	preds, err := l.All()
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, model.OutcomeCorrect, preds[0].Outcome)
}

func TestSQLiteLedger_OrderedByDateThenSymbol(t *testing.T) {
	l := openTestLedger(t)
	d1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	require.NoError(t, l.Append(samplePrediction(d2, "ACB")))
	require.NoError(t, l.Append(samplePrediction(d1, "VNM")))
	require.NoError(t, l.Append(samplePrediction(d1, "HPG")))

	preds, err := l.All()
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, "HPG", preds[0].Symbol)
	assert.Equal(t, "VNM", preds[1].Symbol)
	assert.Equal(t, "ACB", preds[2].Symbol)
}

func TestExportCSV(t *testing.T) {
	l := openTestLedger(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, l.Append(samplePrediction(date, "HPG")))
	require.NoError(t, l.Resolve(date, "HPG", model.OutcomeCorrect))

	path := filepath.Join(t.TempDir(), "reports", "SUMMARY_REPORT.csv")
	require.NoError(t, ExportCSV(l, path))

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	records, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t,
		[]string{"2026-03-02", "HPG", "26.00", "bullish", "26.18", "25.00", "65.0", "correct"},
		records[1])
}
