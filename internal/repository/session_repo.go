package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"minimart/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const sessionPrefix = "session:"

// SessionRepository persists authenticated sessions keyed by an opaque id.
// Get returns (nil, nil) when the id is unknown, expired or unreadable.
type SessionRepository interface {
	Save(ctx context.Context, id string, s *model.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

type redisSessionRepo struct{ rdb *redis.Client }

func NewRedisSessionRepository(rdb *redis.Client) SessionRepository {
	return &redisSessionRepo{rdb: rdb}
}

func (r *redisSessionRepo) Save(ctx context.Context, id string, s *model.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionPrefix+id, data, ttl).Err()
}

func (r *redisSessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	raw, err := r.rdb.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s model.Session
	if err := json.Unmarshal(raw, &s); err != nil || !s.Valid() {
		// A blob we cannot read is treated as signed out.
		log.Warn().Str("session", id).Msg("session: discarding malformed entry")
		_ = r.rdb.Del(ctx, sessionPrefix+id).Err()
		return nil, nil
	}
	s.ID = id
	return &s, nil
}

func (r *redisSessionRepo) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, sessionPrefix+id).Err()
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

type memorySessionRepo struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemorySessionRepository keeps sessions in process. Entries are stored
// encoded so callers never share a *model.Session.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepo{entries: make(map[string]memoryEntry), now: time.Now}
}

func (r *memorySessionRepo) Save(_ context.Context, id string, s *model.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expires = r.now().Add(ttl)
	}
	r.entries[id] = e
	return nil
}

func (r *memorySessionRepo) Get(_ context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && !r.now().Before(e.expires) {
		delete(r.entries, id)
		return nil, nil
	}
	var s model.Session
	if err := json.Unmarshal(e.data, &s); err != nil || !s.Valid() {
		delete(r.entries, id)
		return nil, nil
	}
	s.ID = id
	return &s, nil
}

func (r *memorySessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}
