// Package indicators provides the technical indicators the signal rules
// are built on.
package indicators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"nsebot/market"
)

// SMA calculates the trailing Simple Moving Average of close prices over
// the most recent period candles.
func SMA(series market.Series, period int) (decimal.Decimal, error) {
	if period <= 0 {
		return decimal.Zero, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(series) < period {
		return decimal.Zero, fmt.Errorf("not enough candles: need %d, got %d", period, len(series))
	}

	sum := decimal.Zero
	for i := len(series) - period; i < len(series); i++ {
		sum = sum.Add(series[i].Close)
	}
	return sum.Div(decimal.NewFromInt(int64(period))), nil
}
