// Package engine orchestrates one strategy cycle: risk gate, market
// hours, symbol selection, signal derivation, order placement, ledger
// recording and operator alerts. A cycle degrades gracefully at every
// step; the only error that aborts a cycle is a ledger write failure,
// since risk decisions depend on ledger completeness.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"nsebot/broker"
	"nsebot/journal"
	"nsebot/market"
	"nsebot/pkg/id"
	"nsebot/strategy"
)

// History depth per decision: 21 daily bars, and 21 trading days of
// 75 one-minute bars each.
const (
	dailyBars    = 21
	intradayBars = 21 * 75
)

// CycleState is the terminal state of one strategy cycle.
type CycleState string

const (
	// StateHalted: the circuit breaker is tripped; no action taken this
	// cycle. The breaker is re-evaluated next cycle, not sticky.
	StateHalted CycleState = "HALTED"
	// StateClosed: outside market hours; no side effects.
	StateClosed CycleState = "CLOSED"
	// StateCompleted: every selected symbol was processed (individual
	// symbols may still have been skipped on isolated errors).
	StateCompleted CycleState = "COMPLETED"
	// StateFailed: cycle-level orchestration failed; logged, never
	// propagated past the cycle.
	StateFailed CycleState = "FAILED"
)

// HistoryProvider serves price series; in production this is the on-disk
// cache in front of the broker gateway.
type HistoryProvider interface {
	Get(ctx context.Context, symbol string, interval market.Interval, bars int) (market.Series, error)
}

// RiskGate is the slice of the risk manager the engine consults.
type RiskGate interface {
	CircuitBreakerTripped(now time.Time) (bool, error)
	PositionSize(portfolio decimal.Decimal) decimal.Decimal
}

// Notifier sends best-effort operator alerts.
type Notifier interface {
	Alert(subject, body string) error
}

// Selector chooses which symbols a cycle trades.
type Selector interface {
	Select(ctx context.Context) ([]string, error)
}

// FixedSelector returns the first N symbols of a configured universe.
// Richer screening belongs in an alternative Selector implementation.
type FixedSelector struct {
	Universe []string
	N        int
}

func (s FixedSelector) Select(ctx context.Context) ([]string, error) {
	if len(s.Universe) == 0 {
		return nil, errors.New("empty symbol universe")
	}
	n := s.N
	if n > len(s.Universe) {
		n = len(s.Universe)
	}
	return s.Universe[:n], nil
}

// Params wires an Engine. Every dependency is injected; the engine reads
// no ambient state.
type Params struct {
	Gateway   broker.Gateway
	Data      HistoryProvider
	Ledger    journal.Ledger
	Risk      RiskGate
	Notifier  Notifier
	Selector  Selector
	Hours     market.Hours
	Portfolio decimal.Decimal
}

// Engine runs strategy cycles. Single-threaded by design: cycles never
// overlap, so the read-P&L-then-trade sequence needs no locking.
type Engine struct {
	gateway   broker.Gateway
	data      HistoryProvider
	ledger    journal.Ledger
	risk      RiskGate
	notifier  Notifier
	selector  Selector
	hours     market.Hours
	portfolio decimal.Decimal

	clock func() time.Time

	// Loop timing; fixed in production, shortened in tests.
	cycleInterval  time.Duration
	closedInterval time.Duration
	cooldown       time.Duration
	sleep          func(ctx context.Context, d time.Duration) bool
}

func New(p Params) *Engine {
	return &Engine{
		gateway:        p.Gateway,
		data:           p.Data,
		ledger:         p.Ledger,
		risk:           p.Risk,
		notifier:       p.Notifier,
		selector:       p.Selector,
		hours:          p.Hours,
		portfolio:      p.Portfolio,
		clock:          time.Now,
		cycleInterval:  300 * time.Second,
		closedInterval: 3600 * time.Second,
		cooldown:       600 * time.Second,
		sleep:          sleepCtx,
	}
}

// RunCycle executes one pass of the strategy state machine and returns
// its terminal state. Cycle-level failures are logged here, never
// propagated.
func (e *Engine) RunCycle(ctx context.Context) CycleState {
	log := slog.With("cycle", id.New())
	now := e.clock()

	// Gate check: tripped breaker halts the cycle before any market
	// interaction.
	tripped, err := e.risk.CircuitBreakerTripped(now)
	if err != nil {
		log.Error("circuit breaker check failed", "err", err)
		return StateFailed
	}
	if tripped {
		log.Warn("circuit breaker tripped, trading halted for the day")
		e.alert(log, "Trading Halted: Circuit Breaker",
			"Daily loss limit exceeded. No further trades will be placed today.")
		return StateHalted
	}

	if !e.hours.Open(now) {
		log.Info("market closed")
		return StateClosed
	}

	symbols, err := e.selector.Select(ctx)
	if err != nil {
		log.Error("symbol selection failed", "err", err)
		return StateFailed
	}
	log.Info("cycle started", "symbols", symbols)

	for _, symbol := range symbols {
		if err := e.processSymbol(ctx, log, symbol, len(symbols)); err != nil {
			// Only a ledger write failure propagates out of a symbol's
			// scope; it aborts the cycle because an unrecorded fill
			// would poison every later risk decision.
			log.Error("trade persistence failed, aborting cycle", "symbol", symbol, "err", err)
			e.alert(log, "Fatal: Trade Not Recorded",
				fmt.Sprintf("Order for %s executed but could not be journaled: %v", symbol, err))
			return StateFailed
		}
	}

	log.Info("cycle completed")
	return StateCompleted
}

// processSymbol runs fetch -> signal -> decide -> execute for one
// symbol. Every failure except a ledger write is logged and contained
// here so the remaining symbols still run.
func (e *Engine) processSymbol(ctx context.Context, log *slog.Logger, symbol string, numSymbols int) error {
	log = log.With("symbol", symbol)

	daily, err := e.data.Get(ctx, symbol, market.Day, dailyBars)
	if err != nil {
		log.Warn("daily history unavailable", "err", err)
		return nil
	}
	intraday, err := e.data.Get(ctx, symbol, market.Minute1, intradayBars)
	if err != nil {
		log.Warn("intraday history unavailable", "err", err)
		return nil
	}

	dailySig := strategy.Crossover(daily)
	intradaySig := strategy.Crossover(intraday)
	combined := strategy.Combine(dailySig, intradaySig)
	log.Info("signal", "daily", dailySig, "intraday", intradaySig, "combined", combined)

	if combined == strategy.Hold {
		return nil
	}

	side := broker.SideBuy
	if combined == strategy.Sell {
		side = broker.SideSell
	}

	// The per-trade allocation is the position size split evenly across
	// this cycle's symbols, truncated to whole units.
	alloc := e.risk.PositionSize(e.portfolio).
		Div(decimal.NewFromInt(int64(numSymbols)))
	quantity := int(alloc.IntPart())
	if quantity <= 0 {
		log.Warn("allocation too small to trade", "allocation", alloc)
		return nil
	}

	fill, err := e.gateway.PlaceOrder(ctx, symbol, side, quantity)
	switch {
	case errors.Is(err, broker.ErrPending):
		// Non-fill. The order is never resubmitted; a duplicate could
		// double-fill.
		log.Warn("order not confirmed within poll budget", "side", side, "qty", quantity)
		return nil
	case errors.Is(err, broker.ErrRejected):
		log.Warn("order rejected", "side", side, "qty", quantity)
		return nil
	case err != nil:
		log.Warn("order placement unavailable", "err", err)
		return nil
	}

	price := fill.Price
	if price.IsZero() {
		// Broker confirmed the fill without a price; fall back to the
		// last traded quote.
		if quote, qerr := e.gateway.LiveQuote(ctx, symbol); qerr == nil {
			price = quote
		} else {
			log.Warn("live quote unavailable, recording fill without price", "err", qerr)
		}
	}

	trade := journal.Trade{
		Timestamp: e.clock(),
		Symbol:    symbol,
		Action:    string(side),
		Quantity:  quantity,
		Price:     price,
		Profit:    decimal.Zero,
		OrderID:   fill.OrderID,
	}
	if err := e.ledger.RecordTrade(trade); err != nil {
		return err
	}

	log.Info("trade executed", "side", side, "qty", quantity, "price", price, "order_id", fill.OrderID)
	e.alert(log, fmt.Sprintf("Trade Executed: %s %s", side, symbol),
		fmt.Sprintf("%s %d %s @ %s (order %s)", side, quantity, symbol, price, fill.OrderID))
	return nil
}

// alert delivers a notification best-effort. Failure to notify must
// never halt trading.
func (e *Engine) alert(log *slog.Logger, subject, body string) {
	if err := e.notifier.Alert(subject, body); err != nil {
		log.Warn("notification failed", "subject", subject, "err", err)
	}
}
