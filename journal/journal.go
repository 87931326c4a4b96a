// Package journal is the durable trade ledger. Every confirmed order is
// recorded exactly once and never updated or deleted; the risk gate's
// daily P&L derives from these rows.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one confirmed order execution. Immutable once recorded.
type Trade struct {
	ID        int64
	Timestamp time.Time
	Symbol    string
	Action    string // BUY or SELL
	Quantity  int
	Price     decimal.Decimal
	// Profit is the realized P&L attributed to this trade by whoever
	// inserts the row. The ledger stores it verbatim and never derives
	// it; the engine itself writes zero since it tracks no inventory.
	Profit  decimal.Decimal
	OrderID string
}

// PerformanceSnapshot is one trading day's aggregate metrics, keyed by
// date. Written by the (not yet implemented) metrics job.
type PerformanceSnapshot struct {
	Date        time.Time
	Returns     float64
	Volatility  float64
	MaxDrawdown float64
}

// Ledger is the journal contract the engine and risk manager depend on.
type Ledger interface {
	// RecordTrade appends one trade. A persistence failure propagates:
	// risk decisions depend on ledger completeness, so it is fatal to
	// the trade cycle that produced the row.
	RecordTrade(Trade) error

	// DailyRealizedPnL sums the profit of every trade timestamped on
	// the calendar date of day.
	DailyRealizedPnL(day time.Time) (decimal.Decimal, error)

	// ListTradesOn returns the trades timestamped on the calendar date
	// of day, oldest first.
	ListTradesOn(day time.Time) ([]Trade, error)

	// RecentTrades returns the most recent n trades, newest first.
	RecentTrades(n int) ([]Trade, error)

	// UpsertPerformance writes one day's metrics row, replacing any
	// existing row for the same date.
	UpsertPerformance(PerformanceSnapshot) error

	Close() error
}
