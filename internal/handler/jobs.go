package handler

import (
	"encoding/json"
	"net/http"
	"slices"

	"minimart/internal/apierror"
	"minimart/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	msgUnknownQueue = "Unknown queue."
	dlqPeekLimit    = 50
)

// JobsHandler lets an admin inspect and replay the dead letter queues.
// It is only mounted when jobs run on Redis.
type JobsHandler struct{ rdb *redis.Client }

func NewJobsHandler(rdb *redis.Client) *JobsHandler {
	return &JobsHandler{rdb: rdb}
}

func (h *JobsHandler) queue(c *gin.Context) (string, bool) {
	q := "jobs:" + c.Param("queue")
	if !slices.Contains(worker.Queues, q) {
		c.JSON(http.StatusNotFound, apierror.New(msgUnknownQueue))
		return "", false
	}
	return q, true
}

func (h *JobsHandler) Summary(c *gin.Context) {
	out := make(map[string]int64, len(worker.Queues))
	for _, q := range worker.Queues {
		n, err := worker.DLQLength(c.Request.Context(), h.rdb, q)
		if err != nil {
			respondError(c, err)
			return
		}
		out[q] = n
	}
	c.JSON(http.StatusOK, out)
}

func (h *JobsHandler) Peek(c *gin.Context) {
	q, ok := h.queue(c)
	if !ok {
		return
	}
	entries, err := worker.PeekDLQ(c.Request.Context(), h.rdb, q, dlqPeekLimit)
	for i := range entries {
		entries[i].Payload = redactPayload(entries[i].Payload)
	}
	respond(c, http.StatusOK, entries, err)
}

// secretFields never leave the server, even for entries queued before jobs
// stopped carrying them.
var secretFields = []string{"token", "password"}

func redactPayload(raw json.RawMessage) json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return raw
	}
	changed := false
	for _, k := range secretFields {
		if _, ok := fields[k]; ok {
			fields[k] = json.RawMessage(`"[redacted]"`)
			changed = true
		}
	}
	if !changed {
		return raw
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return raw
	}
	return out
}

func (h *JobsHandler) Replay(c *gin.Context) {
	q, ok := h.queue(c)
	if !ok {
		return
	}
	moved, err := worker.ReplayDLQ(c.Request.Context(), h.rdb, q)
	respond(c, http.StatusOK, gin.H{"replayed": moved}, err)
}
