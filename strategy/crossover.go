// Package strategy derives buy/sell/hold signals from price series.
package strategy

import (
	"nsebot/indicators"
	"nsebot/market"
)

// Signal is a single trade direction decision.
type Signal string

const (
	Buy  Signal = "BUY"
	Sell Signal = "SELL"
	Hold Signal = "HOLD"
)

// Moving-average windows for the crossover rule. The long window also
// sets the minimum history the rule will act on.
const (
	shortWindow = 7
	midWindow   = 14
	longWindow  = 21
)

// MinBars is the minimum series length Crossover needs before it will
// produce anything other than Hold.
const MinBars = longWindow

// Crossover evaluates the triple moving-average rule on the most recent
// bars of a series. Fewer than MinBars observations always yields Hold.
//
// The rules are evaluated in order and are not mutually exclusive; the
// first match wins:
//
//	MA7 > MA14 > MA21  ->  Buy
//	MA7 < MA14         ->  Sell
//	otherwise          ->  Hold
func Crossover(series market.Series) Signal {
	if len(series) < MinBars {
		return Hold
	}

	ma7, err := indicators.SMA(series, shortWindow)
	if err != nil {
		return Hold
	}
	ma14, err := indicators.SMA(series, midWindow)
	if err != nil {
		return Hold
	}
	ma21, err := indicators.SMA(series, longWindow)
	if err != nil {
		return Hold
	}

	switch {
	case ma7.GreaterThan(ma14) && ma14.GreaterThan(ma21):
		return Buy
	case ma7.LessThan(ma14):
		return Sell
	default:
		return Hold
	}
}

// Combine merges the daily and intraday signals for one symbol: both
// timeframes must agree to buy, while either one is enough to sell.
func Combine(daily, intraday Signal) Signal {
	switch {
	case daily == Buy && intraday == Buy:
		return Buy
	case daily == Sell || intraday == Sell:
		return Sell
	default:
		return Hold
	}
}
