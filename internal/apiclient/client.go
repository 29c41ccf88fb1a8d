// Package apiclient is the typed HTTP client for the Mini Mart REST backend.
// Every call goes through do, which attaches the bearer token, classifies
// failures into apierror kinds and (for catalog reads) consults the Memo.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"minimart/internal/apierror"
	"minimart/internal/infra"
)

// Client talks to one backend base URL. Use WithToken to get an authenticated view.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *infra.CircuitBreaker
	memo       *Memo
	token      string
}

type Option func(*Client)

// WithHTTPClient replaces the default *http.Client (tests point it at httptest).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithBreaker(cb *infra.CircuitBreaker) Option {
	return func(c *Client) { c.breaker = cb }
}

func WithMemo(m *Memo) Option {
	return func(c *Client) { c.memo = m }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of c that sends "Authorization: Bearer <token>".
// An empty token sends no Authorization header.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// Breaker exposes the circuit breaker for health reporting; may be nil.
func (c *Client) Breaker() *infra.CircuitBreaker { return c.breaker }

// do performs one request. A 2xx JSON body is decoded into out; 204 or an
// empty body leaves out untouched. failMsg prefixes every HTTP-kind error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, failMsg string) error {
	if method == http.MethodGet && c.memo.cacheable(path) {
		data, err := c.memo.fetch(ctx, memoKey(c.token, path, query), rootOf(path), func(ctx context.Context) ([]byte, error) {
			return c.roundTrip(ctx, method, path, query, nil, failMsg)
		})
		if err != nil {
			return err
		}
		return decode(data, out, failMsg)
	}

	data, err := c.roundTrip(ctx, method, path, query, body, failMsg)
	if err != nil {
		return err
	}
	if method != http.MethodGet {
		c.memo.Invalidate(path)
	}
	return decode(data, out, failMsg)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any, failMsg string) ([]byte, error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("apiclient: marshal %s body: %w", path, err)
		}
		payload = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("apiclient: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	var data []byte
	var callErr error
	call := func() error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			callErr = classifyTransport(ctx, failMsg, err)
			if apierror.IsCancelled(callErr) {
				return nil
			}
			return callErr
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			callErr = classifyTransport(ctx, failMsg, err)
			if apierror.IsCancelled(callErr) {
				return nil
			}
			return callErr
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			callErr = apierror.HTTP(resp.StatusCode, statusMessage(failMsg, resp.StatusCode, raw))
			if resp.StatusCode >= 500 {
				return callErr
			}
			return nil
		}
		if resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "json") && !looksJSON(raw) {
			// plain-text 2xx bodies are acknowledgements, nothing to decode
			return nil
		}
		data = raw
		return nil
	}

	if c.breaker == nil {
		_ = call()
		return data, callErr
	}
	if err := c.breaker.Execute(call); errors.Is(err, infra.ErrCircuitOpen) {
		return nil, apierror.Transport(failMsg+" (backend unavailable)", err)
	}
	return data, callErr
}

// statusMessage renders "<failMsg> (status N - <body>)"; the body part is
// omitted when the trimmed body is empty.
func statusMessage(failMsg string, status int, raw []byte) string {
	detail := strings.TrimSpace(string(raw))
	if detail == "" {
		return fmt.Sprintf("%s (status %d)", failMsg, status)
	}
	return fmt.Sprintf("%s (status %d - %s)", failMsg, status, detail)
}

func classifyTransport(ctx context.Context, failMsg string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return apierror.Cancelled(ctx.Err())
	}
	return apierror.Transport(failMsg+" (backend unreachable)", err)
}

func looksJSON(raw []byte) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && (b[0] == '{' || b[0] == '[')
}

func decode(data []byte, out any, failMsg string) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apierror.Transport(failMsg+" (malformed response)", err)
	}
	return nil
}

func idPath(base string, id int64) string {
	return fmt.Sprintf("%s/%d", base, id)
}

// setIf adds key=value when value is non-empty.
func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setID(q url.Values, key string, id *int64) {
	if id != nil {
		q.Set(key, fmt.Sprintf("%d", *id))
	}
}
