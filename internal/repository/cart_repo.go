package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"minimart/internal/apierror"
	"minimart/internal/pos"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	cartPrefix     = "cart:"
	checkoutPrefix = "checkout:"
)

// MsgCheckoutInFlight is the conflict message for a second concurrent checkout.
const MsgCheckoutInFlight = "A checkout is already in progress for this register."

// CartRepository stores one cart per session. Load returns an empty cart when
// nothing is stored. Lock serializes writers of one cart (checkout and edits);
// the returned func releases it. Locked reports whether a writer holds it.
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (*pos.Cart, error)
	Save(ctx context.Context, sessionID string, c *pos.Cart) error
	Delete(ctx context.Context, sessionID string) error
	Lock(ctx context.Context, sessionID string, ttl time.Duration) (func(), error)
	Locked(ctx context.Context, sessionID string) (bool, error)
}

type redisCartRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCartRepository keeps carts for ttl after their last write.
func NewRedisCartRepository(rdb *redis.Client, ttl time.Duration) CartRepository {
	return &redisCartRepo{rdb: rdb, ttl: ttl}
}

func (r *redisCartRepo) Load(ctx context.Context, sessionID string) (*pos.Cart, error) {
	raw, err := r.rdb.Get(ctx, cartPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return &pos.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	var c pos.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return &pos.Cart{}, nil
	}
	return &c, nil
}

func (r *redisCartRepo) Save(ctx context.Context, sessionID string, c *pos.Cart) error {
	if c.Empty() && c.CashReceived == "" {
		return r.Delete(ctx, sessionID)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, cartPrefix+sessionID, data, r.ttl).Err()
}

func (r *redisCartRepo) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, cartPrefix+sessionID).Err()
}

func (r *redisCartRepo) Locked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, checkoutPrefix+sessionID).Result()
	return n > 0, err
}

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func (r *redisCartRepo) Lock(ctx context.Context, sessionID string, ttl time.Duration) (func(), error) {
	key := checkoutPrefix + sessionID
	token := uuid.NewString()
	ok, err := r.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierror.Conflict(MsgCheckoutInFlight)
	}
	return func() {
		_ = releaseScript.Run(context.WithoutCancel(ctx), r.rdb, []string{key}, token).Err()
	}, nil
}

// cartSweepInterval bounds how often the memory driver scans for expired carts.
const cartSweepInterval = time.Minute

type memoryCart struct {
	data    []byte
	expires time.Time
}

type memoryCartRepo struct {
	mu        sync.Mutex
	ttl       time.Duration
	carts     map[string]memoryCart
	locked    map[string]bool
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryCartRepository keeps carts for ttl after their last write; zero keeps them forever.
func NewMemoryCartRepository(ttl time.Duration) CartRepository {
	return newMemoryCartRepo(ttl)
}

func newMemoryCartRepo(ttl time.Duration) *memoryCartRepo {
	return &memoryCartRepo{
		ttl:    ttl,
		carts:  make(map[string]memoryCart),
		locked: make(map[string]bool),
		now:    time.Now,
	}
}

func (r *memoryCartRepo) expired(e memoryCart, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

func (r *memoryCartRepo) Load(_ context.Context, sessionID string) (*pos.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c pos.Cart
	e, ok := r.carts[sessionID]
	if ok && r.expired(e, r.now()) {
		delete(r.carts, sessionID)
		ok = false
	}
	if ok {
		_ = json.Unmarshal(e.data, &c)
	}
	return &c, nil
}

func (r *memoryCartRepo) Save(_ context.Context, sessionID string, c *pos.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if c.Empty() && c.CashReceived == "" {
		delete(r.carts, sessionID)
	} else {
		e := memoryCart{data: data}
		if r.ttl > 0 {
			e.expires = now.Add(r.ttl)
		}
		r.carts[sessionID] = e
	}
	if now.Sub(r.lastSweep) >= cartSweepInterval {
		r.lastSweep = now
		for id, e := range r.carts {
			if r.expired(e, now) {
				delete(r.carts, id)
			}
		}
	}
	return nil
}

func (r *memoryCartRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}

// Lock ignores ttl; the in-process lock lives until released.
func (r *memoryCartRepo) Lock(_ context.Context, sessionID string, _ time.Duration) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locked[sessionID] {
		return nil, apierror.Conflict(MsgCheckoutInFlight)
	}
	r.locked[sessionID] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.locked, sessionID)
			r.mu.Unlock()
		})
	}, nil
}

func (r *memoryCartRepo) Locked(_ context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locked[sessionID], nil
}
