package watchdog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestRunsTaskOnEveryTick(t *testing.T) {
	is, ctx, clock := testSetup(t)

	runs := make(chan struct{}, 10)

	w := NewWithClock(clock, Task{
		Name:     "tick-counter",
		Interval: time.Minute,
		Run: func(ctx context.Context) error {
			runs <- struct{}{}
			return nil
		},
	})

	w.Start(ctx)
	defer w.Stop()

	clock.tick()
	clock.tick()

	is.NoErr(waitFor(runs, 2))
}

func TestRunAtStartFiresBeforeFirstTick(t *testing.T) {
	is, ctx, clock := testSetup(t)

	runs := make(chan struct{}, 10)

	w := NewWithClock(clock, Task{
		Name:       "eager",
		Interval:   time.Hour,
		RunAtStart: true,
		Run: func(ctx context.Context) error {
			runs <- struct{}{}
			return nil
		},
	})

	w.Start(ctx)
	defer w.Stop()

	is.NoErr(waitFor(runs, 1))
}

func TestFailingTaskDoesNotStopTheSchedule(t *testing.T) {
	is, ctx, clock := testSetup(t)

	runs := make(chan struct{}, 10)

	w := NewWithClock(clock, Task{
		Name:     "flaky",
		Interval: time.Minute,
		Run: func(ctx context.Context) error {
			runs <- struct{}{}
			return fmt.Errorf("remote unavailable")
		},
	})

	w.Start(ctx)
	defer w.Stop()

	clock.tick()
	clock.tick()
	clock.tick()

	is.NoErr(waitFor(runs, 3))
}

func TestPanickingTaskIsRecovered(t *testing.T) {
	is, ctx, clock := testSetup(t)

	runs := make(chan struct{}, 10)

	w := NewWithClock(clock, Task{
		Name:     "panicky",
		Interval: time.Minute,
		Run: func(ctx context.Context) error {
			runs <- struct{}{}
			panic("nil map write")
		},
	})

	w.Start(ctx)
	defer w.Stop()

	clock.tick()
	clock.tick()

	is.NoErr(waitFor(runs, 2))
}

func TestStopWaitsForRunningTasks(t *testing.T) {
	is, ctx, clock := testSetup(t)

	started := make(chan struct{})
	var finished bool

	w := NewWithClock(clock, Task{
		Name:       "slow",
		Interval:   time.Hour,
		RunAtStart: true,
		Run: func(ctx context.Context) error {
			close(started)
			time.Sleep(50 * time.Millisecond)
			finished = true
			return nil
		},
	})

	w.Start(ctx)
	<-started
	w.Stop()

	is.True(finished)
}

func waitFor(runs chan struct{}, count int) error {
	deadline := time.After(2 * time.Second)
	for i := 0; i < count; i++ {
		select {
		case <-runs:
		case <-deadline:
			return fmt.Errorf("timed out after %d of %d runs", i, count)
		}
	}
	return nil
}

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (c *fakeClock) Now() time.Time { return time.Unix(1693300000, 0) }

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	ticker := &fakeTicker{c: make(chan time.Time, 10)}
	c.tickers = append(c.tickers, ticker)
	return ticker
}

func (c *fakeClock) tick() {
	// tickers are registered asynchronously from the watch goroutines
	for {
		c.mu.Lock()
		ready := len(c.tickers) > 0
		tickers := append([]*fakeTicker{}, c.tickers...)
		c.mu.Unlock()

		if ready {
			for _, ticker := range tickers {
				ticker.c <- c.Now()
			}
			return
		}

		time.Sleep(time.Millisecond)
	}
}

type fakeTicker struct {
	c chan time.Time
}

func (t *fakeTicker) Chan() <-chan time.Time { return t.c }
func (t *fakeTicker) Stop()                  {}

func testSetup(t *testing.T) (*is.I, context.Context, *fakeClock) {
	return is.New(t), context.Background(), &fakeClock{}
}
