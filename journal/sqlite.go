package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// SQLite is the Ledger implementation backing live trading. The
// connection is owned exclusively by this value; other components reach
// the ledger only through the Ledger interface.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the ledger database at path and applies
// the schema. Reopening an existing file preserves all rows.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordTrade appends one trade row.
func (j *SQLite) RecordTrade(t Trade) error {
	_, err := j.db.Exec(`
		INSERT INTO trades (timestamp, symbol, action, quantity, price, profit, order_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Timestamp.UTC(), t.Symbol, t.Action, t.Quantity,
		t.Price.String(), t.Profit.String(), t.OrderID,
	)
	if err != nil {
		return fmt.Errorf("record trade %s %s: %w", t.Action, t.Symbol, err)
	}
	return nil
}

// dayBounds returns [start, end) covering the calendar date of day in
// day's own location. Bounds are normalized to UTC to match how rows
// are stored.
func dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// DailyRealizedPnL sums the profit column over the trades of one
// calendar date. Summation happens in Go with decimal arithmetic.
func (j *SQLite) DailyRealizedPnL(day time.Time) (decimal.Decimal, error) {
	start, end := dayBounds(day)

	rows, err := j.db.Query(`
		SELECT profit FROM trades
		WHERE timestamp >= ? AND timestamp < ?`, start, end)
	if err != nil {
		return decimal.Zero, err
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, err
		}
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("bad profit value %q: %w", raw, err)
		}
		sum = sum.Add(p)
	}
	return sum, rows.Err()
}

// ListTradesOn returns one calendar date's trades, oldest first.
func (j *SQLite) ListTradesOn(day time.Time) ([]Trade, error) {
	start, end := dayBounds(day)
	return j.queryTrades(`
		SELECT id, timestamp, symbol, action, quantity, price, profit, order_id
		FROM trades
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC`, start, end)
}

// RecentTrades returns the most recent n trades, newest first.
func (j *SQLite) RecentTrades(n int) ([]Trade, error) {
	return j.queryTrades(`
		SELECT id, timestamp, symbol, action, quantity, price, profit, order_id
		FROM trades
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, n)
}

func (j *SQLite) queryTrades(query string, args ...any) ([]Trade, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		var (
			t             Trade
			price, profit string
		)
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.Symbol, &t.Action,
			&t.Quantity, &price, &profit, &t.OrderID); err != nil {
			return nil, err
		}
		if t.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("bad price value %q: %w", price, err)
		}
		if t.Profit, err = decimal.NewFromString(profit); err != nil {
			return nil, fmt.Errorf("bad profit value %q: %w", profit, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpsertPerformance writes one day's metrics row keyed by date.
func (j *SQLite) UpsertPerformance(s PerformanceSnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO performance (date, returns, volatility, max_drawdown)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			returns = excluded.returns,
			volatility = excluded.volatility,
			max_drawdown = excluded.max_drawdown`,
		s.Date.Format("2006-01-02"), s.Returns, s.Volatility, s.MaxDrawdown,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

var _ Ledger = (*SQLite)(nil)
