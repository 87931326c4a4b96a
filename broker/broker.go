// Package broker defines the gateway contract between the trading engine
// and the brokerage, with explicit outcome values for every call. No
// broker condition is ever surfaced as a panic; callers switch on the
// sentinel errors below.
package broker

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"nsebot/market"
)

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

var (
	// ErrUnavailable means the broker could not be reached after the
	// full retry budget. The caller sees no partial result.
	ErrUnavailable = errors.New("broker: unavailable")

	// ErrRejected means the broker refused the order outright.
	ErrRejected = errors.New("broker: order rejected")

	// ErrPending means the order was submitted but never observed
	// executed within the confirmation poll budget. The order is NOT
	// resubmitted; doing so could double-fill.
	ErrPending = errors.New("broker: order pending")
)

// Status is an order's confirmation state.
type Status string

const (
	StatusExecuted Status = "EXECUTED"
	StatusPending  Status = "PENDING"
)

// Confirmation is the observed state of a submitted order.
type Confirmation struct {
	OrderID string
	Status  Status
	// Price is the average traded price when the broker reports one
	// alongside an executed status; zero otherwise.
	Price decimal.Decimal
}

// Fill is a confirmed execution of a placed order.
type Fill struct {
	OrderID string
	Price   decimal.Decimal
}

// Gateway is the engine's window onto the brokerage.
type Gateway interface {
	// FetchHistory returns up to bars candles of history for symbol at
	// the given interval, oldest first. Transport failure after retries
	// yields ErrUnavailable.
	FetchHistory(ctx context.Context, symbol string, interval market.Interval, bars int) (market.Series, error)

	// PlaceOrder submits a market order and polls for its confirmation.
	// Only an executed confirmation produces a Fill; otherwise one of
	// ErrRejected, ErrPending or ErrUnavailable is returned.
	PlaceOrder(ctx context.Context, symbol string, side Side, quantity int) (Fill, error)

	// ConfirmOrder polls the status of an already-submitted order.
	ConfirmOrder(ctx context.Context, orderID string) (Confirmation, error)

	// LiveQuote returns the last traded price for symbol. Retried the
	// same way FetchHistory is.
	LiveQuote(ctx context.Context, symbol string) (decimal.Decimal, error)
}
