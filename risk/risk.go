// Package risk gates trading behind a daily-loss circuit breaker and
// sizes positions as a fixed fraction of capital.
package risk

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds the risk limits. Immutable after startup.
type Policy struct {
	// MaxDailyLossPct is the loss threshold as a fraction of portfolio
	// value, e.g. 0.02 for 2%.
	MaxDailyLossPct decimal.Decimal

	// PositionSizeFraction is the share of capital allocated to a
	// single trade decision, e.g. 0.20.
	PositionSizeFraction decimal.Decimal

	// PortfolioValue is the fixed capital amount. It is not updated by
	// realized P&L in this version.
	PortfolioValue decimal.Decimal
}

// DailyPnLSource is the slice of the ledger the breaker reads.
type DailyPnLSource interface {
	DailyRealizedPnL(day time.Time) (decimal.Decimal, error)
}

// Manager evaluates the circuit breaker and position sizing against a
// policy and the trade ledger.
type Manager struct {
	policy Policy
	ledger DailyPnLSource
}

func NewManager(policy Policy, ledger DailyPnLSource) *Manager {
	return &Manager{policy: policy, ledger: ledger}
}

// CircuitBreakerTripped reports whether today's realized losses have
// crossed the limit. The breaker trips when the day's realized P&L is
// strictly below -(MaxDailyLossPct * PortfolioValue); a loss of exactly
// the limit does not trip. It derives from the calendar date of now, so
// it rearms by itself at the next date.
func (m *Manager) CircuitBreakerTripped(now time.Time) (bool, error) {
	pnl, err := m.ledger.DailyRealizedPnL(now)
	if err != nil {
		return false, err
	}

	limit := m.policy.MaxDailyLossPct.Mul(m.policy.PortfolioValue).Neg()
	return pnl.LessThan(limit), nil
}

// PositionSize returns the capital amount allocated to one trade
// decision: portfolio * PositionSizeFraction. It is independent of
// current exposure; open positions are not tracked.
func (m *Manager) PositionSize(portfolio decimal.Decimal) decimal.Decimal {
	return portfolio.Mul(m.policy.PositionSizeFraction)
}
