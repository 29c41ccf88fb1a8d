package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueActivity     = "jobs:activity"
	QueueReceiptEmail = "jobs:receipt_email"

	JobActivity     = "activity"
	JobReceiptEmail = "receipt_email"

	// MaxAttempts before a job is parked in the DLQ.
	MaxAttempts = 3

	// popErrorDelay is the pause after BRPOP fails for any reason but an empty queue.
	popErrorDelay = 2 * time.Second
)

// Queues lists every queue the pool consumes, in priority order.
var Queues = []string{QueueReceiptEmail, QueueActivity}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts,omitempty"`
	// Replays counts how many times the job came back out of the DLQ
	Replays int `json:"replays,omitempty"`
}

// Handler processes one job payload.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Handlers maps a job type to its handler.
type Handlers map[string]Handler

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

func isPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) EnqueueActivity(ctx context.Context, p ActivityPayload) error {
	return d.enqueue(ctx, QueueActivity, JobActivity, p)
}

func (d *Dispatcher) EnqueueReceiptEmail(ctx context.Context, p ReceiptEmailPayload) error {
	return d.enqueue(ctx, QueueReceiptEmail, JobReceiptEmail, p)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	encoded, err := encodeJob(jobType, payload)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

func encodeJob(jobType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{Type: jobType, Payload: data})
}

// StartWorkerPool launches numWorkers goroutines consuming every queue.
// Each goroutine blocks on BRPOP and is idle while the queues are empty.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, Queues...).Result()
			if d := popBackoff(err); d > 0 {
				log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed, backing off")
				select {
				case <-ctx.Done():
				case <-time.After(d):
				}
				continue
			}
			if err != nil {
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

// popBackoff is how long a worker waits after a BRPOP error. An empty queue
// (redis.Nil) and shutdown need no wait.
func popBackoff(err error) time.Duration {
	if err == nil || errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
		return 0
	}
	return popErrorDelay
}

// processJob runs one raw job. Failures are retried by pushing the job back
// with an incremented attempt count; permanent failures and exhausted jobs go
// to the DLQ.
func processJob(ctx context.Context, rdb *redis.Client, handlers Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, Job{}, "malformed job: "+err.Error(), true)
		return
	}

	err := runHandler(ctx, handlers, job)
	if err == nil {
		log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job done")
		return
	}

	job.Attempts++
	if isPermanent(err) || job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, rdb, queue, job, err.Error(), isPermanent(err))
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, requeueing")
	encoded, mErr := json.Marshal(job)
	if mErr != nil {
		return
	}
	if pErr := rdb.LPush(ctx, queue, encoded).Err(); pErr != nil {
		log.Error().Err(pErr).Str("queue", queue).Msg("requeue failed")
	}
}

func runHandler(ctx context.Context, handlers Handlers, job Job) (err error) {
	h, ok := handlers[job.Type]
	if !ok {
		return Permanent(fmt.Errorf("no handler for job type %q", job.Type))
	}
	defer func() {
		if r := recover(); r != nil {
			err = Permanent(fmt.Errorf("handler panic: %v", r))
		}
	}()
	return h(ctx, job.Payload)
}
