package renderer

import (
	"errors"
	"sync"
)

var (
	// ErrNoWorkers is returned when a pool is created without workers
	ErrNoWorkers = errors.New("worker pool needs at least one worker")
	// ErrPoolStopped is returned when submitting to a stopped pool
	ErrPoolStopped = errors.New("worker pool is stopped")
)

// Job is a unit of work; it receives the index of the worker running it
type Job func(workerIndex int)

type workerState int

const (
	workerIdle workerState = iota
	workerRunning
)

// WorkerPool runs jobs on a fixed set of goroutines that live until Stop.
// Jobs are taken from a shared FIFO queue; there is no work stealing and no
// ordering between jobs. WaitUntilIdle is the barrier that retires everything
// submitted before it.
//
// A job that panics is not recovered: it takes the process down with it.
type WorkerPool struct {
	mu        sync.Mutex
	queueCond *sync.Cond // queue non-empty or stopping
	idleCond  *sync.Cond // queue empty and no worker running
	queue     []Job
	states    []workerState
	running   int
	stopping  bool
	wg        sync.WaitGroup
}

// NewWorkerPool creates and starts a pool with numWorkers workers
func NewWorkerPool(numWorkers int) (*WorkerPool, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}

	wp := &WorkerPool{
		states: make([]workerState, numWorkers),
	}
	wp.queueCond = sync.NewCond(&wp.mu)
	wp.idleCond = sync.NewCond(&wp.mu)

	for i := 0; i < numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run(i)
	}

	return wp, nil
}

// Submit appends a job to the queue and wakes one idle worker
func (wp *WorkerPool) Submit(job Job) error {
	wp.mu.Lock()
	if wp.stopping {
		wp.mu.Unlock()
		return ErrPoolStopped
	}
	wp.queue = append(wp.queue, job)
	wp.mu.Unlock()

	wp.queueCond.Signal()
	return nil
}

// WaitUntilIdle blocks until the queue is empty and every worker is idle.
// All writes made by jobs submitted before the call are visible when it returns.
func (wp *WorkerPool) WaitUntilIdle() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	for len(wp.queue) > 0 || wp.running > 0 {
		wp.idleCond.Wait()
	}
}

// IsIdle reports whether nothing is queued or running
func (wp *WorkerPool) IsIdle() bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return len(wp.queue) == 0 && wp.running == 0
}

// WorkerIdle reports whether worker i is waiting for work
func (wp *WorkerPool) WorkerIdle(i int) bool {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	return wp.states[i] == workerIdle
}

// Stop lets queued and in-flight jobs finish, then joins every worker.
// It is safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	wp.stopping = true
	wp.mu.Unlock()

	wp.queueCond.Broadcast()
	wp.wg.Wait()
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return len(wp.states)
}

// run is the main worker loop
func (wp *WorkerPool) run(index int) {
	defer wp.wg.Done()

	for {
		wp.mu.Lock()
		for len(wp.queue) == 0 && !wp.stopping {
			wp.queueCond.Wait()
		}
		if len(wp.queue) == 0 {
			// Stopping and drained
			wp.mu.Unlock()
			return
		}

		// Dequeue and flip to running under the same lock, so the barrier can
		// never observe an empty queue while this job is still unaccounted for
		job := wp.queue[0]
		wp.queue[0] = nil
		wp.queue = wp.queue[1:]
		wp.states[index] = workerRunning
		wp.running++
		wp.mu.Unlock()

		job(index)

		wp.mu.Lock()
		wp.states[index] = workerIdle
		wp.running--
		if wp.running == 0 && len(wp.queue) == 0 {
			wp.idleCond.Broadcast()
		}
		wp.mu.Unlock()
	}
}
