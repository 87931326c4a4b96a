package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Loop runs strategy cycles until ctx is cancelled: one cycle every five
// minutes during market hours, an hourly wake-up outside them. Nothing
// short of cancellation stops the loop; a cycle that panics triggers a
// critical alert and a ten-minute cooldown before trading resumes.
func (e *Engine) Loop(ctx context.Context) {
	slog.Info("trading loop started")

	for {
		if ctx.Err() != nil {
			slog.Info("trading loop stopped", "reason", ctx.Err())
			return
		}

		if !e.hours.Open(e.clock()) {
			slog.Info("market closed, sleeping", "duration", e.closedInterval)
			if !e.sleep(ctx, e.closedInterval) {
				slog.Info("trading loop stopped during closed-market sleep")
				return
			}
			continue
		}

		if err := e.safeCycle(ctx); err != nil {
			slog.Error("cycle crashed", "err", err)
			e.alert(slog.Default(), "Critical: Trading Loop Error",
				fmt.Sprintf("Cycle crashed: %v. Resuming after cooldown.", err))
			if !e.sleep(ctx, e.cooldown) {
				slog.Info("trading loop stopped during cooldown")
				return
			}
			continue
		}

		if !e.sleep(ctx, e.cycleInterval) {
			slog.Info("trading loop stopped between cycles")
			return
		}
	}
}

// safeCycle converts a panicking cycle into an error so the loop
// survives it.
func (e *Engine) safeCycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	state := e.RunCycle(ctx)
	slog.Info("cycle finished", "state", state)
	return nil
}

// sleepCtx sleeps for d unless ctx is cancelled first. Returns false on
// cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
