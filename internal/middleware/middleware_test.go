package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"minimart/internal/authz"
	"minimart/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ── Helpers ───────────────────────────────────────────────────────────────────

type stubLoader map[string]*model.Session

func (s stubLoader) Current(_ context.Context, id string) (*model.Session, error) {
	if id == "broken" {
		return nil, errors.New("redis down")
	}
	return s[id], nil
}

func sessionFor(role model.Role) *model.Session {
	return &model.Session{Token: "t", User: &model.SessionUser{UserID: 1, Username: "u", Role: role}}
}

func guarded(t *testing.T) *gin.Engine {
	t.Helper()
	policy := authz.Default()
	r := gin.New()
	r.Use(RequestID(), SessionAuth(stubLoader{
		"admin":   sessionFor(model.RoleAdmin),
		"cashier": sessionFor(model.RoleCashier),
	}, "sid"))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	for _, p := range []string{"/", "/pos", "/inventory/products", "/login"} {
		r.GET(p, ScreenGuard(policy), ok)
	}
	r.NoRoute(ScreenGuard(policy), ok)
	api := r.Group("/api", RequireSession(policy))
	api.GET("/session", ok)
	api.GET("/products", RequireScreen(policy, "/inventory/products"), ok)
	return r
}

func get(r http.Handler, path, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── Guard ────────────────────────────────────────────────────────────────────

func TestScreenGuard(t *testing.T) {
	r := guarded(t)
	cases := []struct {
		path, sid string
		status    int
		location  string
	}{
		{"/pos", "", http.StatusFound, "/login?next=%2Fpos"},
		{"/pos", "cashier", http.StatusOK, ""},
		{"/inventory/products", "cashier", http.StatusFound, "/unauthorized"},
		{"/inventory/products", "admin", http.StatusOK, ""},
		{"/", "cashier", http.StatusFound, "/unauthorized"},
		{"/login", "", http.StatusOK, ""},
		{"/does-not-exist", "cashier", http.StatusFound, "/pos"},
		{"/cash-register", "cashier", http.StatusFound, "/pos"},
		{"/pos", "broken", http.StatusFound, "/login?next=%2Fpos"},
	}
	for _, tc := range cases {
		w := get(r, tc.path, tc.sid)
		assert.Equal(t, tc.status, w.Code, "%s as %q", tc.path, tc.sid)
		assert.Equal(t, tc.location, w.Header().Get("Location"), "%s as %q", tc.path, tc.sid)
	}
}

func TestRequireScreen_API(t *testing.T) {
	r := guarded(t)

	w := get(r, "/api/session", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, MsgAuthRequired, body["detail"])
	assert.Equal(t, "/login", body["redirect"])

	w = get(r, "/api/products", "cashier")
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/unauthorized", body["redirect"])

	assert.Equal(t, http.StatusOK, get(r, "/api/products", "admin").Code)
	assert.Equal(t, http.StatusOK, get(r, "/api/session", "cashier").Code)
}

func TestRequireScreen_UnknownScreenPanics(t *testing.T) {
	assert.Panics(t, func() { RequireScreen(authz.Default(), "/nope") })
}

// ── Ambient ──────────────────────────────────────────────────────────────────

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := get(r, "/", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRecoveryAndErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), ErrorHandler())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/err", func(c *gin.Context) { _ = c.Error(errors.New("db password leaked")) })

	for _, p := range []string{"/panic", "/err"} {
		w := get(r, p, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"detail":"Internal server error."}`, w.Body.String())
	}
}

func TestLimiter_Window(t *testing.T) {
	l := newLimiter(2, time.Minute)
	clock := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	ok, _ := l.allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.allow("1.1.1.1")
	assert.False(t, ok)
	ok, _ = l.allow("2.2.2.2")
	assert.True(t, ok)

	clock = clock.Add(61 * time.Second)
	ok, _ = l.allow("1.1.1.1")
	assert.True(t, ok)

	clock = clock.Add(purgeInterval)
	l.allow("3.3.3.3")
	assert.Len(t, l.entries, 1)
}

func TestLoginRateLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/auth/login", LoginRateLimiter(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	var last int
	for i := 0; i < 21; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		last = w.Code
		if i < 20 {
			require.Equal(t, http.StatusNoContent, w.Code)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://console.test"}))
	r.GET("/api/session", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
	req.Header.Set("Origin", "http://console.test")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://console.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
