// Package poller runs fixed-interval refresh loops on top of robfig/cron.
// Each registered task runs once on Start and then on every tick; a failing
// tick is logged and the loop carries on.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is one poll
type Task func(ctx context.Context) error

type entry struct {
	name string
	spec string
	task Task
}

// Poller owns a set of independent periodic tasks
type Poller struct {
	cron    *cron.Cron
	logger  *zap.Logger
	entries []entry

	mu      sync.Mutex
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// New creates an idle poller
func New(logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		cron: cron.New(
			cron.WithLogger(cronLogger{logger.Sugar()}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger.Sugar()})),
		),
		logger: logger,
	}
}

// Every registers task under name to run every interval. Intervals are
// rounded to whole seconds; anything below one second is rejected.
func (p *Poller) Every(name string, interval time.Duration, task Task) error {
	if interval < time.Second {
		return fmt.Errorf("poller %s: interval %s is below one second", name, interval)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return fmt.Errorf("poller %s: already started", name)
	}

	e := entry{name: name, spec: fmt.Sprintf("@every %s", interval.Round(time.Second)), task: task}
	if _, err := p.cron.AddFunc(e.spec, func() { p.run(e) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	p.entries = append(p.entries, e)
	return nil
}

// Start runs every task once in the background and starts the schedule.
// Tasks receive a context derived from ctx that is cancelled by Stop.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	entries := append([]entry(nil), p.entries...)
	p.mu.Unlock()

	p.cron.Start()
	for _, e := range entries {
		p.wg.Add(1)
		go func(e entry) {
			defer p.wg.Done()
			p.run(e)
		}(e)
	}
	p.logger.Debug("poller started", zap.Int("tasks", len(entries)))
}

// Stop cancels in-flight tasks and waits for them to return
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.started = false
	p.mu.Unlock()

	<-p.cron.Stop().Done()
	p.wg.Wait()
	p.logger.Debug("poller stopped")
}

func (p *Poller) run(e entry) {
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	if err := e.task(ctx); err != nil && ctx.Err() == nil {
		p.logger.Warn("poll failed", zap.String("task", e.name), zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
