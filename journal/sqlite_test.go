package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestLedger(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	j, err := NewSQLite(path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSchemaCreated(t *testing.T) {
	t.Parallel()

	_, path := newTestLedger(t)

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','performance')`)
	assert.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())
	assert.True(t, found["trades"])
	assert.True(t, found["performance"])
}

func TestReopenPreservesRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.db")

	j, err := NewSQLite(path)
	assert.NoError(t, err)
	assert.NoError(t, j.RecordTrade(Trade{
		Timestamp: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		Symbol:    "RELIANCE",
		Action:    "BUY",
		Quantity:  40,
		Price:     dec("2895.40"),
		Profit:    dec("0"),
		OrderID:   "OD1",
	}))
	assert.NoError(t, j.Close())

	// Reopening applies the schema again; existing rows must survive.
	j2, err := NewSQLite(path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = j2.Close() })

	trades, err := j2.RecentTrades(10)
	assert.NoError(t, err)
	assert.Len(t, trades, 1)
	assert.Equal(t, "RELIANCE", trades[0].Symbol)
	assert.True(t, trades[0].Price.Equal(dec("2895.40")))
}

func TestDailyRealizedPnLFiltersByDate(t *testing.T) {
	t.Parallel()

	j, _ := newTestLedger(t)

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	record := func(ts time.Time, profit string) {
		assert.NoError(t, j.RecordTrade(Trade{
			Timestamp: ts,
			Symbol:    "TCS",
			Action:    "SELL",
			Quantity:  10,
			Price:     dec("4000"),
			Profit:    dec(profit),
			OrderID:   "OD",
		}))
	}

	record(day.Add(10*time.Hour), "-150.25")
	record(day.Add(14*time.Hour), "75.10")
	// A trade on the previous day must not count.
	record(day.Add(-2*time.Hour), "-10000")

	pnl, err := j.DailyRealizedPnL(day.Add(12 * time.Hour))
	assert.NoError(t, err)
	assert.True(t, pnl.Equal(dec("-75.15")), "got %s", pnl)

	trades, err := j.ListTradesOn(day)
	assert.NoError(t, err)
	assert.Len(t, trades, 2)
}

func TestDailyRealizedPnLEmptyDayIsZero(t *testing.T) {
	t.Parallel()

	j, _ := newTestLedger(t)

	pnl, err := j.DailyRealizedPnL(time.Now())
	assert.NoError(t, err)
	assert.True(t, pnl.IsZero())
}

func TestRecentTradesNewestFirst(t *testing.T) {
	t.Parallel()

	j, _ := newTestLedger(t)

	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		assert.NoError(t, j.RecordTrade(Trade{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Symbol:    "INFY",
			Action:    "BUY",
			Quantity:  i + 1,
			Price:     dec("1500"),
			Profit:    dec("0"),
			OrderID:   "OD",
		}))
	}

	trades, err := j.RecentTrades(2)
	assert.NoError(t, err)
	assert.Len(t, trades, 2)
	assert.Equal(t, 3, trades[0].Quantity)
	assert.Equal(t, 2, trades[1].Quantity)
}

func TestUpsertPerformanceReplaces(t *testing.T) {
	t.Parallel()

	j, path := newTestLedger(t)

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, j.UpsertPerformance(PerformanceSnapshot{Date: day, Returns: 0.01, Volatility: 0.2, MaxDrawdown: 0.05}))
	assert.NoError(t, j.UpsertPerformance(PerformanceSnapshot{Date: day, Returns: 0.02, Volatility: 0.3, MaxDrawdown: 0.06}))

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		count   int
		returns float64
	)
	assert.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM performance`).Scan(&count))
	assert.NoError(t, db.QueryRow(`SELECT returns FROM performance WHERE date = '2025-06-02'`).Scan(&returns))
	assert.Equal(t, 1, count)
	assert.InDelta(t, 0.02, returns, 1e-12)
}
