package apiclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"sync"
	"time"

	"minimart/internal/apierror"

	"golang.org/x/sync/singleflight"
)

// Memo caches successful GET bodies for a fixed set of resource roots.
// Entries are keyed per bearer token, so one caller's cached body (or failed
// load) is never handed to another. Identical concurrent reads with the same
// token share one backend call; any write under a root drops that root's
// entries for every token. A nil *Memo or a zero TTL caches nothing.
type Memo struct {
	ttl   time.Duration
	roots map[string]bool

	mu      sync.Mutex
	entries map[string]memoEntry
	gen     uint64
	group   singleflight.Group
	now     func() time.Time
}

type memoEntry struct {
	root    string
	data    []byte
	expires time.Time
}

// NewMemo memoizes GETs whose first path segment is one of roots, e.g. "/products".
func NewMemo(ttl time.Duration, roots ...string) *Memo {
	m := &Memo{
		ttl:     ttl,
		roots:   make(map[string]bool, len(roots)),
		entries: make(map[string]memoEntry),
		now:     time.Now,
	}
	for _, r := range roots {
		m.roots[rootOf(r)] = true
	}
	return m
}

func (m *Memo) cacheable(path string) bool {
	return m != nil && m.ttl > 0 && m.roots[rootOf(path)]
}

func (m *Memo) fetch(ctx context.Context, key, root string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	m.mu.Lock()
	if e, ok := m.entries[key]; ok && m.now().Before(e.expires) {
		m.mu.Unlock()
		return e.data, nil
	}
	gen := m.gen
	m.mu.Unlock()

	// the shared load must outlive any single waiter
	ch := m.group.DoChan(key, func() (any, error) {
		data, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		if m.gen == gen {
			m.entries[key] = memoEntry{root: root, data: data, expires: m.now().Add(m.ttl)}
		}
		m.mu.Unlock()
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, apierror.Cancelled(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		data, _ := res.Val.([]byte)
		return data, nil
	}
}

// Invalidate drops every entry under path's resource root.
func (m *Memo) Invalidate(path string) {
	if m == nil {
		return
	}
	root := rootOf(path)
	if !m.roots[root] {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	for k, e := range m.entries {
		if e.root == root {
			delete(m.entries, k)
		}
	}
}

// Len reports the number of live entries.
func (m *Memo) Len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// memoKey scopes path and query to the token that made the call. The token
// is hashed so raw credentials never sit in the map.
func memoKey(token, path string, query url.Values) string {
	sum := sha256.Sum256([]byte(token))
	key := hex.EncodeToString(sum[:8]) + " " + path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}
	return key
}

// rootOf returns "/products" for "/products/12?x=1".
func rootOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	return "/" + p
}
