package queue

import (
	"context"
	"fmt"
	"time"

	"versioned-translator/internal/domain"
	"versioned-translator/internal/worker"
)

// Enqueuer schedules a translation job. The caller does not wait for it.
type Enqueuer interface {
	Enqueue(ctx context.Context, job domain.TranslationJob, timeout time.Duration) error
}

// Handler runs one job.
type Handler func(ctx context.Context, job domain.TranslationJob) error

// Submitter is the part of worker.WorkerPool the queues need.
type Submitter interface {
	Submit(name string, t worker.Task, timeout time.Duration) error
}

func taskName(job domain.TranslationJob) string {
	return fmt.Sprintf("translate:%s/%s", job.Doctype, job.Docname)
}

func submit(pool Submitter, handler Handler, job domain.TranslationJob, timeout time.Duration) error {
	return pool.Submit(taskName(job), func(ctx context.Context) error {
		return handler(ctx, job)
	}, timeout)
}

// LocalQueue hands jobs straight to the worker pool. Jobs are lost on restart.
type LocalQueue struct {
	pool    Submitter
	handler Handler
}

func NewLocalQueue(pool Submitter, handler Handler) *LocalQueue {
	return &LocalQueue{pool: pool, handler: handler}
}

func (q *LocalQueue) Enqueue(_ context.Context, job domain.TranslationJob, timeout time.Duration) error {
	return submit(q.pool, q.handler, job, timeout)
}
