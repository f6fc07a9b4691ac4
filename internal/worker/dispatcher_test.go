package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestDispatcher(workers, queueSize int) *Dispatcher {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewDispatcher(workers, queueSize, time.Second, logger)
}

func TestDispatcherRunsJobs(t *testing.T) {
	d := newTestDispatcher(2, 8)
	d.Start(context.Background())
	defer d.Stop()

	var wg sync.WaitGroup
	var count atomic.Int64
	for i := 0; i < 5; i++ {
		wg.Add(1)
		ok := d.Enqueue(Job{
			ID:   "job",
			Name: "test",
			Run: func(context.Context) error {
				count.Add(1)
				wg.Done()
				return nil
			},
		})
		if !ok {
			t.Fatal("expected enqueue to succeed")
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("jobs did not finish in time")
	}
	if count.Load() != 5 {
		t.Fatalf("expected 5 runs, got %d", count.Load())
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	// Not started, so the queue only drains by capacity.
	d := newTestDispatcher(1, 1)

	first := d.Enqueue(Job{ID: "1", Name: "test", Run: func(context.Context) error { return nil }})
	second := d.Enqueue(Job{ID: "2", Name: "test", Run: func(context.Context) error { return nil }})

	if !first {
		t.Fatal("first job should fit the queue")
	}
	if second {
		t.Fatal("second job should be dropped")
	}
}

func TestDispatcherFailedJobDoesNotStopWorkers(t *testing.T) {
	d := newTestDispatcher(1, 4)
	d.Start(context.Background())
	defer d.Stop()

	var wg sync.WaitGroup
	wg.Add(2)
	d.Enqueue(Job{ID: "1", Name: "test", Run: func(context.Context) error {
		defer wg.Done()
		return errors.New("downstream offline")
	}})
	d.Enqueue(Job{ID: "2", Name: "test", Run: func(context.Context) error {
		defer wg.Done()
		return nil
	}})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker stalled after failed job")
	}
}

func TestDispatcherJobTimeout(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	d := NewDispatcher(1, 1, 50*time.Millisecond, logger)
	d.Start(context.Background())
	defer d.Stop()

	expired := make(chan struct{})
	d.Enqueue(Job{ID: "1", Name: "test", Run: func(ctx context.Context) error {
		<-ctx.Done()
		close(expired)
		return ctx.Err()
	}})

	select {
	case <-expired:
	case <-time.After(5 * time.Second):
		t.Fatal("job context never expired")
	}
}

func TestDispatcherStopDrainsQueuedJobs(t *testing.T) {
	d := newTestDispatcher(1, 8)
	d.Start(context.Background())

	var count atomic.Int64
	release := make(chan struct{})
	d.Enqueue(Job{ID: "slow", Name: "test", Run: func(context.Context) error {
		<-release
		count.Add(1)
		return nil
	}})
	for i := 0; i < 5; i++ {
		if !d.Enqueue(Job{ID: "queued", Name: "test", Run: func(context.Context) error {
			count.Add(1)
			return nil
		}}) {
			t.Fatal("expected enqueue to succeed")
		}
	}

	close(release)
	d.Stop()

	if count.Load() != 6 {
		t.Fatalf("expected all queued jobs delivered before stop, got %d", count.Load())
	}
}

func TestDispatcherRejectsJobsAfterStop(t *testing.T) {
	d := newTestDispatcher(1, 4)
	d.Start(context.Background())
	d.Stop()

	if d.Enqueue(Job{ID: "late", Name: "test", Run: func(context.Context) error { return nil }}) {
		t.Fatal("expected enqueue to fail after stop")
	}
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	d := newTestDispatcher(2, 2)
	d.Start(context.Background())
	d.Stop()
	d.Stop()
}

func TestNewDispatcherClampsSettings(t *testing.T) {
	d := NewDispatcher(0, 0, 0, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	if d.workers != 1 {
		t.Fatalf("expected worker count clamped to 1, got %d", d.workers)
	}
	if cap(d.jobs) != 1 {
		t.Fatalf("expected queue size clamped to 1, got %d", cap(d.jobs))
	}
	if d.timeout != 5*time.Second {
		t.Fatalf("expected default timeout, got %v", d.timeout)
	}
}
