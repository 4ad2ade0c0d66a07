// Package dispatcher runs fire-and-forget jobs on a small fixed-size pool of
// workers so the HTTP response path never blocks on scoring, persistence or
// mail delivery. Jobs are at-most-once: a failing job is logged by the worker
// and never retried, and no result or error flows back to the submitter.
package dispatcher

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// JobFunc is an opaque unit of work. It receives a background context: once a
// job is handed to a worker there is no cancellation and no timeout, a
// long-running job simply occupies its worker slot.
type JobFunc func(ctx context.Context)

// Status reports pool health for the /health endpoint.
type Status struct {
	Active bool `json:"active"`
	Size   int  `json:"size"`
	Queued int  `json:"queued"`
}

const queueCapacity = 1024

// Dispatcher owns the worker pool. Construct one per process and pass it by
// reference; lifecycle is explicit via Initialize/Shutdown rather than
// implicit on first use, though Submit will lazily initialize with defaults
// if Initialize was never called.
type Dispatcher struct {
	logger *slog.Logger

	mu       sync.RWMutex
	jobs     chan queuedJob
	wg       sync.WaitGroup
	size     int
	started  bool
	draining bool
}

type queuedJob struct {
	name string
	run  JobFunc
}

func New(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// DefaultSize mirrors the platform default of min(4, available parallelism).
func DefaultSize() int {
	n := runtime.NumCPU()
	if n > 4 {
		return 4
	}
	return n
}

// Initialize creates the pool once with the given number of workers; size <= 0
// selects DefaultSize. Calling Initialize again after the pool exists is a
// no-op.
func (d *Dispatcher) Initialize(size int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initializeLocked(size)
}

func (d *Dispatcher) initializeLocked(size int) {
	if d.started {
		return
	}
	if size <= 0 {
		size = DefaultSize()
	}
	d.size = size
	d.jobs = make(chan queuedJob, queueCapacity)
	d.started = true

	for i := 0; i < size; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.logger.Info("dispatcher initialized", "workers", size)
}

// Submit enqueues job for execution on any idle worker and returns
// immediately. The job's outcome is not reported back; jobs are responsible
// for logging their own failures. Submitting before Initialize lazily creates
// the pool with the default size. Submitting after Shutdown drops the job
// with a log line.
func (d *Dispatcher) Submit(name string, job JobFunc) {
	d.mu.RLock()
	if d.draining {
		d.mu.RUnlock()
		d.logger.Warn("dispatcher draining, job rejected", "job", name)
		return
	}
	if !d.started {
		d.mu.RUnlock()
		d.Initialize(0)
		d.mu.RLock()
		if d.draining {
			d.mu.RUnlock()
			d.logger.Warn("dispatcher draining, job rejected", "job", name)
			return
		}
	}
	defer d.mu.RUnlock()

	select {
	case d.jobs <- queuedJob{name: name, run: job}:
	default:
		// Queue is full. Keep the fire-and-forget contract: hand the send to
		// a goroutine instead of blocking the caller.
		d.logger.Warn("dispatcher queue full, enqueueing in background", "job", name)
		go func(q queuedJob) {
			d.mu.RLock()
			defer d.mu.RUnlock()
			if d.draining {
				d.logger.Warn("dispatcher draining, job rejected", "job", q.name)
				return
			}
			d.jobs <- q
		}(queuedJob{name: name, run: job})
	}
}

// Shutdown stops intake, waits for every queued and in-flight job to finish,
// then releases the workers. It must be called exactly once on process
// termination; ctx bounds how long the drain may take.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.started || d.draining {
		d.mu.Unlock()
		return nil
	}
	d.draining = true
	close(d.jobs)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("dispatcher drained")
		return nil
	case <-ctx.Done():
		d.logger.Error("dispatcher drain aborted", "error", ctx.Err())
		return ctx.Err()
	}
}

// Status reports whether the pool is accepting jobs, its configured size and
// the current queue depth.
func (d *Dispatcher) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()

	st := Status{Active: d.started && !d.draining, Size: d.size}
	if d.jobs != nil {
		st.Queued = len(d.jobs)
	}
	return st
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for job := range d.jobs {
		start := time.Now()
		d.runJob(id, job)
		d.logger.Debug("job finished",
			"worker", id,
			"job", job.name,
			"duration", time.Since(start).String())
	}
}

// runJob isolates one job execution so a panic takes down neither the worker
// nor the process. The error stays in the log: the submitter already got its
// response.
func (d *Dispatcher) runJob(id int, job queuedJob) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("job panicked",
				"worker", id,
				"job", job.name,
				"panic", r)
		}
	}()

	job.run(context.Background())
}
