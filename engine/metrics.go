package engine

import (
	"context"
	"errors"
	"time"
)

// ErrMetricsNotImplemented marks the performance-metrics job as an
// unbuilt extension point. The performance table exists and is writable
// through the ledger; the computation that fills it does not.
var ErrMetricsNotImplemented = errors.New("engine: performance metrics not implemented")

// CalculateMetrics will one day compute returns, volatility and max
// drawdown for day and upsert them into the performance table.
func (e *Engine) CalculateMetrics(ctx context.Context, day time.Time) error {
	return ErrMetricsNotImplemented
}
