package ledger

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"VN30Radar/internal/model"
)

// SQLiteLedger persists predictions to a SQLite database.
type SQLiteLedger struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteLedger opens (or creates) the SQLite database and runs migrations.
func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	l := &SQLiteLedger{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite ledger opened: %s", dbPath)
	return l, nil
}

func (l *SQLiteLedger) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			date                TEXT NOT NULL,
			symbol              TEXT NOT NULL,
			close_price         REAL NOT NULL,
			trend               TEXT NOT NULL,
			target_price        REAL NOT NULL,
			stoploss_price      REAL NOT NULL,
			success_probability REAL NOT NULL,
			rationale           TEXT,
			outcome             TEXT NOT NULL DEFAULT 'unresolved'
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_pred_date_symbol ON predictions(date, symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_pred_outcome ON predictions(outcome)`,
	}

	for _, s := range stmts {
		if _, err := l.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (l *SQLiteLedger) Append(p *model.Prediction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// INSERT OR IGNORE keeps the create-exactly-once invariant: a second
	// append for the same (date, symbol) is a no-op.
	_, err := l.db.Exec(`INSERT OR IGNORE INTO predictions
		(date, symbol, close_price, trend, target_price, stoploss_price, success_probability, rationale, outcome)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		p.Date.Format(DateLayout), p.Symbol, p.ClosePrice, string(p.Trend),
		p.TargetPrice, p.StoplossPrice, p.SuccessProbability, p.Rationale,
		string(model.OutcomeUnresolved),
	)
	return err
}

func (l *SQLiteLedger) Unresolved() ([]model.Prediction, error) {
	return l.query(`SELECT date, symbol, close_price, trend, target_price, stoploss_price,
		success_probability, rationale, outcome
		FROM predictions WHERE outcome = ? ORDER BY date, symbol`, string(model.OutcomeUnresolved))
}

func (l *SQLiteLedger) All() ([]model.Prediction, error) {
	return l.query(`SELECT date, symbol, close_price, trend, target_price, stoploss_price,
		success_probability, rationale, outcome
		FROM predictions ORDER BY date, symbol`)
}

func (l *SQLiteLedger) query(q string, args ...any) ([]model.Prediction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var preds []model.Prediction
	for rows.Next() {
		var p model.Prediction
		var dateStr, trend, outcome string
		if err := rows.Scan(&dateStr, &p.Symbol, &p.ClosePrice, &trend,
			&p.TargetPrice, &p.StoplossPrice, &p.SuccessProbability, &p.Rationale, &outcome); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		d, err := time.Parse(DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", dateStr, err)
		}
		p.Date = d
		p.Trend = model.Trend(trend)
		p.Outcome = model.Outcome(outcome)
		preds = append(preds, p)
	}
	return preds, rows.Err()
}

func (l *SQLiteLedger) Resolve(date time.Time, symbol string, outcome model.Outcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Only unresolved rows transition; a resolved row never changes again.
	_, err := l.db.Exec(`UPDATE predictions SET outcome = ?
		WHERE date = ? AND symbol = ? AND outcome = ?`,
		string(outcome), date.Format(DateLayout), symbol, string(model.OutcomeUnresolved))
	return err
}

func (l *SQLiteLedger) Close() error {
	log.Println("[INFO] closing sqlite ledger")
	return l.db.Close()
}
