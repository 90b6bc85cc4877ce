package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sh1dan/infoseek/internal/domain"
)

// ErrQueueFull is returned by Enqueue when the request buffer is saturated
// or the dispatcher is no longer accepting work.
var ErrQueueFull = errors.New("dispatcher queue is full")

// Runner executes one scrape request to completion.
type Runner interface {
	Run(ctx context.Context, req domain.ScrapeRequest) domain.PipelineOutcome
}

// Dispatcher fans queued scrape requests out to a fixed pool of workers.
// Each worker runs one task at a time, so concurrency is bounded by the
// number of browser sessions the pool may hold open simultaneously.
type Dispatcher struct {
	runner  Runner
	queue   chan domain.ScrapeRequest
	workers int
	logger  *slog.Logger

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher builds a dispatcher with the given worker count and queue
// capacity. Values below one are clamped to sane minimums.
func NewDispatcher(runner Runner, workers, queueSize int, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		runner:  runner,
		queue:   make(chan domain.ScrapeRequest, queueSize),
		workers: workers,
		logger:  logger,
	}
}

// Start launches the worker pool. Workers exit when the context is cancelled
// or the queue is closed and drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
	d.logger.Info("dispatcher started", "workers", d.workers, "queue", cap(d.queue))
}

// Enqueue hands a request to the pool without blocking the caller.
func (d *Dispatcher) Enqueue(req domain.ScrapeRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return ErrQueueFull
	}
	select {
	case d.queue <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight tasks to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("dispatcher stopped")
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	logger := d.logger.With("worker", id)
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-d.queue:
			if !ok {
				return
			}
			logger.Debug("task picked up", "task", req.TaskID)
			d.runner.Run(ctx, req)
		}
	}
}
