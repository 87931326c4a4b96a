package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeSleep records requested sleeps and optionally cancels after a
// number of them.
type fakeSleep struct {
	slept       []time.Duration
	cancelAfter int
	cancel      context.CancelFunc
}

func (f *fakeSleep) sleep(ctx context.Context, d time.Duration) bool {
	f.slept = append(f.slept, d)
	if len(f.slept) >= f.cancelAfter {
		f.cancel()
		return false
	}
	return true
}

func TestLoopSleepsLongWhenMarketClosed(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fiveSymbols(), nil)
	f.engine.clock = istClock(t, 18, 0)

	ctx, cancel := context.WithCancel(context.Background())
	fs := &fakeSleep{cancelAfter: 2, cancel: cancel}
	f.engine.sleep = fs.sleep

	f.engine.Loop(ctx)

	for _, d := range fs.slept {
		assert.Equal(t, f.engine.closedInterval, d)
	}
	assert.Empty(t, f.gateway.orders)
}

func TestLoopRunsCyclesDuringMarketHours(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []string{"RELIANCE"}, map[string]string{"RELIANCE": "up"})

	ctx, cancel := context.WithCancel(context.Background())
	fs := &fakeSleep{cancelAfter: 3, cancel: cancel}
	f.engine.sleep = fs.sleep

	f.engine.Loop(ctx)

	// Three cycles ran, separated by the cycle interval.
	assert.Len(t, f.gateway.orders, 3)
	for _, d := range fs.slept {
		assert.Equal(t, f.engine.cycleInterval, d)
	}
}

func TestLoopSurvivesPanicWithCooldown(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fiveSymbols(), nil)
	f.engine.risk = panicRisk{}

	ctx, cancel := context.WithCancel(context.Background())
	fs := &fakeSleep{cancelAfter: 2, cancel: cancel}
	f.engine.sleep = fs.sleep

	f.engine.Loop(ctx)

	// Both sleeps are cooldowns: the panic repeats each iteration and
	// the loop keeps going regardless.
	assert.Len(t, fs.slept, 2)
	for _, d := range fs.slept {
		assert.Equal(t, f.engine.cooldown, d)
	}
	assert.Contains(t, strings.Join(f.notifier.subjects, " "), "Critical")
}

func TestLoopStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t, fiveSymbols(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		f.engine.Loop(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on cancelled context")
	}
}
