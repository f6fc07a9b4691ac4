package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is one downstream notification to deliver. Jobs are at-most-once:
// a failed run is logged and never retried.
type Job struct {
	ID   string
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher delivers notification jobs on a worker pool, decoupled from
// the request path. Enqueue never blocks: when the queue is full the job
// is dropped with a log line. Stop drains jobs already queued before the
// workers exit.
type Dispatcher struct {
	jobs    chan Job
	workers int
	timeout time.Duration
	logger  *slog.Logger

	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
	stopped bool
}

// NewDispatcher constructs the notification worker pool.
func NewDispatcher(workers, queueSize int, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		timeout: timeout,
		logger:  logger,
	}
}

// Start launches background delivery.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop refuses new jobs, lets the workers finish everything already
// queued, then halts them.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()
}

// Enqueue hands a job to the pool. Returns false when the job was dropped
// because the queue is full or the dispatcher is stopping.
func (d *Dispatcher) Enqueue(job Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		d.logger.Warn("notification dropped, dispatcher stopped",
			slog.String("job", job.Name),
			slog.String("id", job.ID),
		)
		return false
	}

	select {
	case d.jobs <- job:
		return true
	default:
		d.logger.Warn("notification dropped, queue full",
			slog.String("job", job.Name),
			slog.String("id", job.ID),
		)
		return false
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for job := range d.jobs {
		d.handle(ctx, job)
	}
}

func (d *Dispatcher) handle(ctx context.Context, job Job) {
	jobCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := job.Run(jobCtx); err != nil {
		d.logger.Warn("notification failed",
			slog.String("job", job.Name),
			slog.String("id", job.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	d.logger.Info("notification delivered",
		slog.String("job", job.Name),
		slog.String("id", job.ID),
	)
}
