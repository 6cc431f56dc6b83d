package watchdog

import (
	"context"
	"sync"
	"time"

	"github.com/cloudmon/dynatrace-mgmt/internal/pkg/infrastructure/logging"
)

// Clock abstracts time for the scheduler so that tests can drive ticks
// without waiting for wall clock intervals.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
func (systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{ticker: time.NewTicker(d)}
}

type systemTicker struct {
	ticker *time.Ticker
}

func (t *systemTicker) Chan() <-chan time.Time { return t.ticker.C }
func (t *systemTicker) Stop()                  { t.ticker.Stop() }

// Task is a named unit of periodic work. Run is invoked once per interval
// and once immediately on start when RunAtStart is set.
type Task struct {
	Name       string
	Interval   time.Duration
	RunAtStart bool
	Run        func(ctx context.Context) error
}

type Watchdog interface {
	Start(ctx context.Context)
	Stop()
}

type watchdogImpl struct {
	tasks []Task
	clock Clock

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

func New(tasks ...Task) Watchdog {
	return NewWithClock(systemClock{}, tasks...)
}

func NewWithClock(clock Clock, tasks ...Task) Watchdog {
	return &watchdogImpl{tasks: tasks, clock: clock}
}

func (w *watchdogImpl) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)

	for _, task := range w.tasks {
		w.wg.Add(1)
		go w.watch(ctx, task)
	}
}

func (w *watchdogImpl) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *watchdogImpl) watch(ctx context.Context, task Task) {
	defer w.wg.Done()

	logger := logging.GetLoggerFromContext(ctx)

	if task.RunAtStart {
		w.run(ctx, task)
	}

	ticker := w.clock.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msgf("stopping task %s", task.Name)
			return
		case <-ticker.Chan():
			w.run(ctx, task)
		}
	}
}

// run isolates a single task invocation so a panicking or failing task
// never takes the scheduler down with it.
func (w *watchdogImpl) run(ctx context.Context, task Task) {
	logger := logging.GetLoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Msgf("task %s panicked: %v", task.Name, r)
		}
	}()

	started := w.clock.Now()

	if err := task.Run(ctx); err != nil {
		logger.Error().Err(err).Msgf("task %s failed", task.Name)
		return
	}

	logger.Debug().Msgf("task %s completed in %s", task.Name, w.clock.Now().Sub(started))
}
