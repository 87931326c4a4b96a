// Package market holds the core market-data types shared by every
// component: OHLCV candles, price series and trading-session hours.
package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle represents one OHLCV observation at a given interval.
type Candle struct {
	Time   time.Time       `msgpack:"t"`
	Open   decimal.Decimal `msgpack:"o"`
	High   decimal.Decimal `msgpack:"h"`
	Low    decimal.Decimal `msgpack:"l"`
	Close  decimal.Decimal `msgpack:"c"`
	Volume int64           `msgpack:"v"`
}

// Series is an ordered run of candles for a single symbol and interval,
// ascending by time with no duplicate timestamps.
type Series []Candle

// Closes returns the close price of every candle, oldest first.
func (s Series) Closes() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// Last returns the most recent candle. ok is false for an empty series.
func (s Series) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// Interval identifies the candle timeframe requested from the broker.
type Interval string

const (
	Day     Interval = "D"
	Minute1 Interval = "1"
)
