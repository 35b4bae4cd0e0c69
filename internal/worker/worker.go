package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrQueueFull    = errors.New("worker: task queue full")
	ErrShuttingDown = errors.New("worker: pool is shutting down")
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

type job struct {
	name    string
	task    Task
	timeout time.Duration
}

type WorkerPool struct {
	taskQueue chan job
	wg        sync.WaitGroup
	isClosing atomic.Bool // thread-safe value
	mu        sync.RWMutex
	log       zerolog.Logger
}

func NewWorkerPool(size, buffer int, log zerolog.Logger) *WorkerPool {
	wp := &WorkerPool{
		taskQueue: make(chan job, buffer),
		log:       log,
	}

	// Start the workers
	for range size {
		wp.wg.Add(1) // add to WaitGroup
		go wp.startWorker()
	}

	return wp
}

func (wp *WorkerPool) startWorker() {
	defer wp.wg.Done() // signal when worker finished
	for j := range wp.taskQueue {
		wp.run(j)
	}
}

func (wp *WorkerPool) run(j job) {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			wp.log.Error().Str("task", j.name).Interface("panic", r).Msg("worker task panicked")
		}
	}()

	start := time.Now()
	if err := j.task(ctx); err != nil { // run task
		wp.log.Error().Err(err).Str("task", j.name).Dur("took", time.Since(start)).Msg("worker task failed")
		return
	}
	wp.log.Debug().Str("task", j.name).Dur("took", time.Since(start)).Msg("worker task done")
}

// Submit queues a task. A zero timeout means no deadline.
func (wp *WorkerPool) Submit(name string, t Task, timeout time.Duration) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.isClosing.Load() {
		return ErrShuttingDown
	}
	select {
	case wp.taskQueue <- job{name: name, task: t, timeout: timeout}: // send task to worker pool
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown closes the queue and waits for workers to finish
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.isClosing.Swap(true) {
		wp.mu.Unlock()
		return
	}
	close(wp.taskQueue) // Stop accepting new tasks
	wp.mu.Unlock()
	wp.wg.Wait() // Wait for all active workers to finish tasks
}
