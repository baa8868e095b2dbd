package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// csvHeader is the fixed column set of the summary export.
var csvHeader = []string{
	"date", "symbol", "close_price", "trend",
	"target_price", "stoploss_price", "success_probability", "outcome",
}

// ExportCSV writes the full ledger as a summary CSV, one row per prediction.
// The file is rewritten whole on each run so resolved outcomes show up
// in place.
func ExportCSV(l Ledger, path string) error {
	preds, err := l.All()
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer fh.Close()

	w := csv.NewWriter(fh)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range preds {
		row := []string{
			p.Date.Format(DateLayout),
			p.Symbol,
			strconv.FormatFloat(p.ClosePrice, 'f', 2, 64),
			string(p.Trend),
			strconv.FormatFloat(p.TargetPrice, 'f', 2, 64),
			strconv.FormatFloat(p.StoplossPrice, 'f', 2, 64),
			strconv.FormatFloat(p.SuccessProbability, 'f', 1, 64),
			string(p.Outcome),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
