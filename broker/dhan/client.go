// Package dhan implements broker.Gateway against a Dhan-style equities
// REST API: bearer access token plus client id, JSON order placement and
// order-status polling.
package dhan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"nsebot/broker"
	"nsebot/market"
	"nsebot/pkg/id"
)

const (
	// Retry budget for every outbound call: attempts 0..2 with a
	// 2^attempt second backoff after each failed attempt.
	maxAttempts = 3

	// Confirmation budget: 5 status polls, 2s apart. An order that is
	// not executed inside this window is reported pending and is never
	// resubmitted.
	confirmPolls = 5
	confirmDelay = 2 * time.Second

	exchangeSegment = "NSE_EQ"
	productType     = "INTRADAY"
	orderType       = "MARKET"
	orderValidity   = "DAY"
)

// Client is a retrying Dhan REST client.
type Client struct {
	http     *resty.Client
	clientID string

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// New creates a Client authenticated with the given client id and
// access token.
func New(baseURL, clientID, accessToken string) *Client {
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("access-token", accessToken).
		SetHeader("client-id", clientID).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:     hc,
		clientID: clientID,
		sleep:    time.Sleep,
	}
}

// withRetry runs fn up to maxAttempts times with exponential backoff.
// Exhaustion surfaces as broker.ErrUnavailable; fn's own result is never
// partially returned.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := fn(); err != nil {
			lastErr = err
			if attempt < maxAttempts-1 {
				c.sleep(time.Duration(1<<attempt) * time.Second)
			}
			continue
		}
		return nil
	}
	if ctx.Err() != nil {
		lastErr = ctx.Err()
	}
	return fmt.Errorf("%w: %v", broker.ErrUnavailable, lastErr)
}

type apiCandle struct {
	Timestamp int64           `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
}

type historyResponse struct {
	Candles []apiCandle `json:"candles"`
}

// FetchHistory returns up to bars candles for symbol, oldest first.
func (c *Client) FetchHistory(ctx context.Context, symbol string, interval market.Interval, bars int) (market.Series, error) {
	var series market.Series

	err := c.withRetry(ctx, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"securityId":      symbol,
				"exchangeSegment": exchangeSegment,
				"interval":        string(interval),
				"count":           fmt.Sprintf("%d", bars),
			}).
			Get("/charts/historical")
		if err != nil {
			return fmt.Errorf("fetch history %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("fetch history %s: status %d: %s", symbol, resp.StatusCode(), resp.String())
		}

		var hr historyResponse
		if err := json.Unmarshal(resp.Body(), &hr); err != nil {
			return fmt.Errorf("decode history %s: %w", symbol, err)
		}

		series = make(market.Series, 0, len(hr.Candles))
		for _, ac := range hr.Candles {
			series = append(series, market.Candle{
				Time:   time.Unix(ac.Timestamp, 0).UTC(),
				Open:   ac.Open,
				High:   ac.High,
				Low:    ac.Low,
				Close:  ac.Close,
				Volume: ac.Volume,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

type orderRequest struct {
	DhanClientID    string `json:"dhanClientId"`
	CorrelationID   string `json:"correlationId"`
	TransactionType string `json:"transactionType"`
	ExchangeSegment string `json:"exchangeSegment"`
	ProductType     string `json:"productType"`
	OrderType       string `json:"orderType"`
	Validity        string `json:"validity"`
	SecurityID      string `json:"securityId"`
	Quantity        int    `json:"quantity"`
}

type orderResponse struct {
	OrderID     string `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
}

// PlaceOrder submits a market order and immediately polls for its
// confirmation. Only an executed confirmation yields a Fill.
func (c *Client) PlaceOrder(ctx context.Context, symbol string, side broker.Side, quantity int) (broker.Fill, error) {
	req := orderRequest{
		DhanClientID:    c.clientID,
		CorrelationID:   id.New(),
		TransactionType: string(side),
		ExchangeSegment: exchangeSegment,
		ProductType:     productType,
		OrderType:       orderType,
		Validity:        orderValidity,
		SecurityID:      symbol,
		Quantity:        quantity,
	}

	var or orderResponse
	err := c.withRetry(ctx, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(req).
			Post("/orders")
		if err != nil {
			return fmt.Errorf("place order %s %s: %w", side, symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("place order %s %s: status %d: %s", side, symbol, resp.StatusCode(), resp.String())
		}
		if err := json.Unmarshal(resp.Body(), &or); err != nil {
			return fmt.Errorf("decode order response: %w", err)
		}
		return nil
	})
	if err != nil {
		return broker.Fill{}, err
	}

	// A definitive rejection is an answer, not a transport failure.
	if or.OrderStatus == "REJECTED" {
		return broker.Fill{}, fmt.Errorf("%w: %s %s", broker.ErrRejected, side, symbol)
	}

	conf, err := c.ConfirmOrder(ctx, or.OrderID)
	if err != nil {
		return broker.Fill{}, err
	}
	if conf.Status != broker.StatusExecuted {
		return broker.Fill{}, fmt.Errorf("%w: order %s", broker.ErrPending, or.OrderID)
	}

	return broker.Fill{OrderID: or.OrderID, Price: conf.Price}, nil
}

type statusResponse struct {
	OrderID            string          `json:"orderId"`
	OrderStatus        string          `json:"orderStatus"`
	AverageTradedPrice decimal.Decimal `json:"averageTradedPrice"`
}

// ConfirmOrder polls the order status until it is executed or the poll
// budget runs out. A transport failure during a poll counts as one
// unsuccessful poll; the underlying order is never resubmitted.
func (c *Client) ConfirmOrder(ctx context.Context, orderID string) (broker.Confirmation, error) {
	for poll := 0; poll < confirmPolls; poll++ {
		if poll > 0 {
			c.sleep(confirmDelay)
		}

		sr, err := c.pollStatus(ctx, orderID)
		if err != nil {
			continue
		}
		if sr.OrderStatus == "EXECUTED" || sr.OrderStatus == "TRADED" {
			return broker.Confirmation{
				OrderID: orderID,
				Status:  broker.StatusExecuted,
				Price:   sr.AverageTradedPrice,
			}, nil
		}
	}
	return broker.Confirmation{OrderID: orderID, Status: broker.StatusPending}, nil
}

func (c *Client) pollStatus(ctx context.Context, orderID string) (statusResponse, error) {
	var sr statusResponse

	resp, err := c.http.R().
		SetContext(ctx).
		Get("/orders/" + orderID)
	if err != nil {
		return sr, fmt.Errorf("order status %s: %w", orderID, err)
	}
	if resp.StatusCode() != 200 {
		return sr, fmt.Errorf("order status %s: status %d", orderID, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), &sr); err != nil {
		return sr, fmt.Errorf("decode order status: %w", err)
	}
	return sr, nil
}

type quoteResponse struct {
	LastTradedPrice decimal.Decimal `json:"lastTradedPrice"`
}

// LiveQuote returns the last traded price for symbol, retried the same
// way FetchHistory is.
func (c *Client) LiveQuote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	var qr quoteResponse

	err := c.withRetry(ctx, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"securityId":      symbol,
				"exchangeSegment": exchangeSegment,
			}).
			Get("/marketfeed/ltp")
		if err != nil {
			return fmt.Errorf("live quote %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("live quote %s: status %d", symbol, resp.StatusCode())
		}
		if err := json.Unmarshal(resp.Body(), &qr); err != nil {
			return fmt.Errorf("decode quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return qr.LastTradedPrice, nil
}

var _ broker.Gateway = (*Client)(nil)
