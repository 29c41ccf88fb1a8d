package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// LocalDispatcher runs jobs in-process when no Redis is configured. It keeps
// the retry budget of the Redis pool but drops exhausted jobs after logging.
type LocalDispatcher struct {
	handlers Handlers
	backoff  time.Duration
	ctx      context.Context
	wg       sync.WaitGroup
}

// NewLocalDispatcher runs handlers until ctx is cancelled.
func NewLocalDispatcher(ctx context.Context, handlers Handlers) *LocalDispatcher {
	return &LocalDispatcher{handlers: handlers, backoff: time.Second, ctx: ctx}
}

func (d *LocalDispatcher) EnqueueActivity(_ context.Context, p ActivityPayload) error {
	return d.enqueue(JobActivity, p)
}

func (d *LocalDispatcher) EnqueueReceiptEmail(_ context.Context, p ReceiptEmailPayload) error {
	return d.enqueue(JobReceiptEmail, p)
}

// Wait blocks until every enqueued job has finished.
func (d *LocalDispatcher) Wait() { d.wg.Wait() }

func (d *LocalDispatcher) enqueue(jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(job)
	}()
	return nil
}

func (d *LocalDispatcher) run(job Job) {
	for {
		err := runHandler(d.ctx, d.handlers, job)
		if err == nil {
			return
		}
		job.Attempts++
		if isPermanent(err) || job.Attempts >= MaxAttempts {
			log.Error().Err(err).Str("type", job.Type).Int("attempts", job.Attempts).Msg("local job dropped")
			return
		}
		select {
		case <-d.ctx.Done():
			return
		case <-time.After(d.backoff * time.Duration(job.Attempts)):
		}
	}
}
