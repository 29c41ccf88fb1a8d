package service

import (
	"context"
	"time"

	"minimart/internal/model"
	"minimart/internal/worker"

	"github.com/rs/zerolog/log"
)

// JobQueue is satisfied by worker.Dispatcher (Redis) and worker.LocalDispatcher.
type JobQueue interface {
	EnqueueActivity(ctx context.Context, p worker.ActivityPayload) error
	EnqueueReceiptEmail(ctx context.Context, p worker.ReceiptEmailPayload) error
}

// activityLogLayout is the zone-less timestamp the backend stores for log dates.
const activityLogLayout = "2006-01-02T15:04:05"

func activityEntry(sess *model.Session, action string, now time.Time) model.NewActivityLog {
	return model.NewActivityLog{UserID: sess.User.UserID, Action: action, LogDate: now.Format(activityLogLayout)}
}

// recordActivity enqueues an activity log entry. The job names the session,
// never its token; the worker looks the token up when it runs. Failures only
// log; the user action that triggered it has already succeeded.
func recordActivity(ctx context.Context, jobs JobQueue, sess *model.Session, action string, now time.Time) {
	if jobs == nil || !sess.Valid() || sess.ID == "" {
		return
	}
	p := worker.ActivityPayload{SessionID: sess.ID, Entry: activityEntry(sess, action, now)}
	if err := jobs.EnqueueActivity(context.WithoutCancel(ctx), p); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("activity: enqueue failed")
	}
}
