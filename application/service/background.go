package service

import (
	"context"
	"log/slog"
	"sync"
)

// TaskFunc is a unit of background work.
type TaskFunc func(ctx context.Context) error

// Submitter accepts fire-and-forget background tasks.
type Submitter interface {
	Submit(name string, fn TaskFunc)
}

// task pairs a TaskFunc with a name for logging.
type task struct {
	name string
	fn   TaskFunc
}

// Background runs submitted tasks on a single goroutine, independent of
// the submitting request's lifecycle. Submission never blocks: tasks are
// best-effort, and errors are logged rather than propagated.
type Background struct {
	tasks  chan task
	logger *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewBackground creates a Background runner.
func NewBackground(logger *slog.Logger) *Background {
	if logger == nil {
		logger = slog.Default()
	}
	return &Background{
		tasks:  make(chan task, 64),
		logger: logger,
	}
}

// Start begins processing submitted tasks. Call Stop to shut down.
func (b *Background) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		return
	}

	ctx, b.cancel = context.WithCancel(ctx)
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()
		b.run(ctx)
	}()

	b.logger.Debug("background runner started")
}

// Stop shuts down the runner, waiting for the in-flight task to finish.
// Queued tasks that have not started are dropped.
func (b *Background) Stop() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	b.wg.Wait()
	b.logger.Debug("background runner stopped")
}

// Submit enqueues a task without waiting for it to run. If the queue is
// full the task is dropped with a warning; callers treat submission as
// best-effort.
func (b *Background) Submit(name string, fn TaskFunc) {
	select {
	case b.tasks <- task{name: name, fn: fn}:
		b.logger.Debug("task submitted", "task", name)
	default:
		b.logger.Warn("task queue full, dropping task", "task", name)
	}
}

func (b *Background) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-b.tasks:
			if err := t.fn(ctx); err != nil {
				b.logger.Error("background task failed", "task", t.name, "error", err)
			}
		}
	}
}

var _ Submitter = (*Background)(nil)
