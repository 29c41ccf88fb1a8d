package worker

import (
	"context"
	"encoding/json"
	"errors"

	"minimart/internal/apiclient"
	"minimart/internal/apierror"
	"minimart/internal/model"

	"github.com/rs/zerolog/log"
)

// ActivityPayload asks the worker to append an entry to the backend activity
// log on behalf of a signed-in session. Only the session id is queued; the
// bearer token stays in the session store.
type ActivityPayload struct {
	SessionID string               `json:"sessionId"`
	Entry     model.NewActivityLog `json:"entry"`
}

// SessionLookup resolves a session id to its stored session; nil when gone.
type SessionLookup interface {
	Get(ctx context.Context, id string) (*model.Session, error)
}

var errSessionGone = errors.New("activity_worker: session ended before the entry was logged")

// ActivityLogger is the backend call the worker needs.
type ActivityLogger interface {
	LogActivity(ctx context.Context, token string, in model.NewActivityLog) error
}

// ActivityWorker posts activity log entries to the backend.
type ActivityWorker struct {
	logger   ActivityLogger
	sessions SessionLookup
}

func NewActivityWorker(logger ActivityLogger, sessions SessionLookup) *ActivityWorker {
	return &ActivityWorker{logger: logger, sessions: sessions}
}

// Process implements Handler. Client errors from the backend are not retried.
func (w *ActivityWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p ActivityPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Permanent(err)
	}
	if p.Entry.Action == "" {
		log.Warn().Msg("activity_worker: empty action, skipping")
		return nil
	}
	sess, err := w.sessions.Get(ctx, p.SessionID)
	if err != nil {
		return err
	}
	if !sess.Valid() {
		return Permanent(errSessionGone)
	}
	err = w.logger.LogActivity(ctx, sess.Token, p.Entry)
	if err == nil {
		return nil
	}
	var ae *apierror.Error
	if errors.As(err, &ae) && ae.Kind == apierror.KindHTTP && ae.Status < 500 {
		return Permanent(err)
	}
	return err
}

type backendLogger struct{ client *apiclient.Client }

// BackendActivityLogger adapts the backend client to ActivityLogger.
func BackendActivityLogger(c *apiclient.Client) ActivityLogger { return backendLogger{client: c} }

func (b backendLogger) LogActivity(ctx context.Context, token string, in model.NewActivityLog) error {
	return b.client.WithToken(token).LogActivity(ctx, in)
}
