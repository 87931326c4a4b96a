package risk

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakePnL struct {
	pnl decimal.Decimal
	err error
}

func (f fakePnL) DailyRealizedPnL(day time.Time) (decimal.Decimal, error) {
	return f.pnl, f.err
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testPolicy() Policy {
	return Policy{
		MaxDailyLossPct:      dec("0.02"),
		PositionSizeFraction: dec("0.20"),
		PortfolioValue:       dec("1000000"),
	}
}

func TestCircuitBreakerBoundary(t *testing.T) {
	t.Parallel()

	// Limit is -(0.02 * 1,000,000) = -20,000.
	tests := []struct {
		name    string
		pnl     string
		tripped bool
	}{
		{"no trades", "0", false},
		{"profit", "5000", false},
		{"small loss", "-19999.99", false},
		{"exactly the limit", "-20000", false},
		{"one paisa past", "-20000.01", true},
		{"deep loss", "-50000", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewManager(testPolicy(), fakePnL{pnl: dec(tt.pnl)})
			tripped, err := m.CircuitBreakerTripped(time.Now())
			assert.NoError(t, err)
			assert.Equal(t, tt.tripped, tripped)
		})
	}
}

func TestCircuitBreakerLedgerError(t *testing.T) {
	t.Parallel()

	m := NewManager(testPolicy(), fakePnL{err: errors.New("db closed")})
	_, err := m.CircuitBreakerTripped(time.Now())
	assert.Error(t, err)
}

func TestPositionSize(t *testing.T) {
	t.Parallel()

	m := NewManager(testPolicy(), fakePnL{})

	size := m.PositionSize(dec("1000000"))
	assert.True(t, size.Equal(dec("200000")), "got %s", size)
}

func TestPositionSizeIsLinear(t *testing.T) {
	t.Parallel()

	m := NewManager(testPolicy(), fakePnL{})

	v := dec("123456.78")
	double := m.PositionSize(v.Mul(dec("2")))
	assert.True(t, double.Equal(m.PositionSize(v).Mul(dec("2"))))
}
