package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"versioned-translator/internal/domain"
	"versioned-translator/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "versioned_translator:queue:"

type envelope struct {
	Doctype        string    `json:"doctype"`
	Docname        string    `json:"docname"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
}

// RedisQueue keeps pending jobs in a Redis list so they survive a restart.
// A popped entry stays in a processing list until its job returns, and
// Consume moves leftovers from a crashed run back to the queue, so delivery
// is at-least-once. Run one consumer per queue name.
type RedisQueue struct {
	client     *redis.Client
	key        string
	processing string
	log        zerolog.Logger
	poll       time.Duration
	backoff    time.Duration
}

func NewRedisQueue(client *redis.Client, name string, log zerolog.Logger) *RedisQueue {
	return &RedisQueue{
		client:     client,
		key:        keyPrefix + name,
		processing: keyPrefix + name + ":processing",
		log:        log,
		poll:       5 * time.Second,
		backoff:    time.Second,
	}
}

func (q *RedisQueue) Key() string {
	return q.key
}

func (q *RedisQueue) ProcessingKey() string {
	return q.processing
}

func (q *RedisQueue) Enqueue(ctx context.Context, job domain.TranslationJob, timeout time.Duration) error {
	data, err := json.Marshal(envelope{
		Doctype:        job.Doctype,
		Docname:        job.Docname,
		TimeoutSeconds: int(timeout / time.Second),
		EnqueuedAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, data).Err()
}

// Recover moves entries left in the processing list back to the consuming
// end of the queue, oldest first. It returns the number of entries moved.
func (q *RedisQueue) Recover(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.client.LMove(ctx, q.processing, q.key, "LEFT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, err
		}
		moved++
	}
}

// Consume pops jobs and submits them to pool until ctx is cancelled.
// Jobs the pool cannot take are pushed back to the consuming end.
func (q *RedisQueue) Consume(ctx context.Context, pool Submitter, handler Handler) {
	q.log.Info().Str("key", q.key).Msg("queue consumer started")
	defer q.log.Info().Str("key", q.key).Msg("queue consumer stopped")

	if moved, err := q.Recover(ctx); err != nil {
		q.log.Error().Err(err).Msg("requeue of unfinished jobs failed")
	} else if moved > 0 {
		q.log.Warn().Int("jobs", moved).Msg("requeued jobs left unfinished by a previous run")
	}

	for {
		if ctx.Err() != nil {
			return
		}

		raw, err := q.client.BLMove(ctx, q.key, q.processing, "RIGHT", "LEFT", q.poll).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			q.log.Error().Err(err).Msg("queue pop failed")
			q.wait(ctx)
			continue
		}

		var env envelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			q.log.Error().Err(err).Str("payload", raw).Msg("dropping malformed queue entry")
			q.ack(raw)
			continue
		}

		job := domain.TranslationJob{Doctype: env.Doctype, Docname: env.Docname}
		timeout := time.Duration(env.TimeoutSeconds) * time.Second
		err = pool.Submit(taskName(job), func(ctx context.Context) error {
			defer q.ack(raw)
			return handler(ctx, job)
		}, timeout)
		if err == nil {
			continue
		}

		q.requeue(raw)
		if errors.Is(err, worker.ErrShuttingDown) {
			return
		}
		q.log.Warn().Err(err).Str("doctype", job.Doctype).Str("docname", job.Docname).Msg("worker pool busy, job requeued")
		q.wait(ctx)
	}
}

// ack drops a finished entry from the processing list. It uses
// context.Background so a cancelled consumer still acknowledges.
func (q *RedisQueue) ack(raw string) {
	if err := q.client.LRem(context.Background(), q.processing, 1, raw).Err(); err != nil {
		q.log.Error().Err(err).Str("payload", raw).Msg("failed to acknowledge job")
	}
}

func (q *RedisQueue) requeue(raw string) {
	_, err := q.client.TxPipelined(context.Background(), func(pipe redis.Pipeliner) error {
		pipe.LRem(context.Background(), q.processing, 1, raw)
		pipe.RPush(context.Background(), q.key, raw)
		return nil
	})
	if err != nil {
		q.log.Error().Err(err).Str("payload", raw).Msg("failed to requeue job")
	}
}

func (q *RedisQueue) wait(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(q.backoff):
	}
}
