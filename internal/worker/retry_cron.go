package worker

// retry_cron.go
// Background goroutine that periodically moves transiently failed jobs out of
// the DLQ and back onto their queue. Ticks are skipped while the backend
// circuit breaker is open so a downed backend is not hammered.

import (
	"context"
	"encoding/json"
	"time"

	"minimart/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	// MaxReplays bounds how often one job may leave the DLQ automatically.
	MaxReplays = 3
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RDB      *redis.Client
	CB       *infra.CircuitBreaker
	Queues   []string
	Interval time.Duration
}

// StartRetryCron launches the replay loop. It respects ctx for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = retryTickInterval
	}
	if len(cfg.Queues) == 0 {
		cfg.Queues = Queues
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				for _, q := range cfg.Queues {
					processRetries(ctx, cfg, q)
				}
			}
		}
	}()
}

// processRetries inspects at most retryBatchSize entries of one DLQ. Entries
// that are permanent or out of replays rotate back to the head of the DLQ.
func processRetries(ctx context.Context, cfg RetryCronConfig, queue string) int {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return 0
	}

	key := DLQPrefix + queue
	replayed := 0
	for i := 0; i < retryBatchSize; i++ {
		raw, err := cfg.RDB.RPop(ctx, key).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			log.Error().Err(err).Str("dlq_key", key).Msg("retry_cron: failed to read DLQ")
			break
		}

		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil || e.JobType == "" {
			log.Warn().Str("dlq_key", key).Msg("retry_cron: dropping unreplayable entry")
			continue
		}
		if e.Permanent || e.Replays >= MaxReplays {
			if err := cfg.RDB.LPush(ctx, key, raw).Err(); err != nil {
				log.Error().Err(err).Str("dlq_key", key).Msg("retry_cron: failed to park entry")
			}
			continue
		}

		encoded, err := json.Marshal(Job{Type: e.JobType, Payload: e.Payload, Replays: e.Replays + 1})
		if err != nil {
			continue
		}
		if err := cfg.RDB.LPush(ctx, queue, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("retry_cron: requeue failed")
			_ = cfg.RDB.RPush(ctx, key, raw).Err()
			break
		}
		replayed++
	}
	if replayed > 0 {
		log.Info().Str("queue", queue).Int("count", replayed).Msg("retry_cron: replayed jobs from DLQ")
	}
	return replayed
}
